package laundry

import "laundry-cycle-backend/internal/model"

// Action is a request to move a load into its next phase.
type Action string

const (
	ActionStartWasher Action = "start_washer"
	ActionStartDryer  Action = "start_dryer"
	ActionMarkDone    Action = "mark_done"
)

type step struct {
	from model.LoadStatus
	to   model.LoadStatus
}

// steps is the whole lifecycle: one action per edge, no branches, nothing out of done.
var steps = map[Action]step{
	ActionStartWasher: {from: model.StatusWaiting, to: model.StatusWashing},
	ActionStartDryer:  {from: model.StatusWashing, to: model.StatusDrying},
	ActionMarkDone:    {from: model.StatusDrying, to: model.StatusDone},
}

// ParseAction validates a raw action name.
func ParseAction(raw string) (Action, error) {
	a := Action(raw)
	if _, ok := steps[a]; !ok {
		return "", ErrInvalidAction
	}
	return a, nil
}

// CanApply reports whether action is the valid next step for a load in status.
func CanApply(action Action, status model.LoadStatus) bool {
	s, ok := steps[action]
	return ok && s.from == status
}

// Target returns the status a load ends up in after action.
func Target(action Action) model.LoadStatus {
	return steps[action].to
}

// NextAction returns the action that advances a load in status, if any.
func NextAction(status model.LoadStatus) (Action, bool) {
	for a, s := range steps {
		if s.from == status {
			return a, true
		}
	}
	return "", false
}

