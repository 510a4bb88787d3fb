package laundry

import "laundry-cycle-backend/internal/model"

// DryerCount is the number of physical dryers; dryers are numbered from 1.
const DryerCount = 2

// washerHolder returns the load other than exceptID that is currently washing.
func washerHolder(loads []model.Load, exceptID string) (*model.Load, bool) {
	for i := range loads {
		if loads[i].ID != exceptID && loads[i].Status == model.StatusWashing {
			return &loads[i], true
		}
	}
	return nil, false
}

// dryersInUse maps each occupied dryer number to the drying load holding it.
// Done loads keep their dryer number on record but no longer occupy it.
func dryersInUse(loads []model.Load) map[int]*model.Load {
	used := make(map[int]*model.Load, DryerCount)
	for i := range loads {
		if loads[i].Status == model.StatusDrying && loads[i].DryerNumber != nil {
			used[*loads[i].DryerNumber] = &loads[i]
		}
	}
	return used
}

// lowestFreeDryer picks the lowest-numbered dryer not in use.
func lowestFreeDryer(loads []model.Load) (int, bool) {
	used := dryersInUse(loads)
	for n := 1; n <= DryerCount; n++ {
		if _, busy := used[n]; !busy {
			return n, true
		}
	}
	return 0, false
}
