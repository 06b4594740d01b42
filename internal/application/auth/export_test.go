package auth

import "time"

func SetLogoutClock(uc *Logout, now func() time.Time) { uc.now = now }
