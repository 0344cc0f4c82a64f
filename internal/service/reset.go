package service

import "context"

// ResetAccount deletes every task, milestone and project of the user.
// A failure part way through leaves the earlier deletes in place.
func (d *Dashboard) ResetAccount(ctx context.Context) error {
	if err := d.gw.ResetAllUserData(ctx, d.userID); err != nil {
		return d.fail("reset account", err)
	}
	d.log.Warn("account reset")
	return nil
}
