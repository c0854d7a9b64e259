package types

import "time"

// Viewer identifies who is making the current request. The zero value is
// the anonymous viewer rendering times in UTC.
type Viewer struct {
	UserID   uint
	Location *time.Location
}

var Anonymous = Viewer{}

func NewViewer(userID uint, loc *time.Location) Viewer {
	return Viewer{UserID: userID, Location: loc}
}

func (v Viewer) IsAnonymous() bool {
	return v.UserID == 0
}

// Local converts t into the viewer's timezone.
func (v Viewer) Local(t time.Time) time.Time {
	if v.Location == nil {
		return t.UTC()
	}
	return t.In(v.Location)
}
