package record

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"
)

type fakeRepo struct {
	Repository
	rows []LeaderboardRow
}

func (f *fakeRepo) TopVolunteers(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit < len(f.rows) {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

func TestService_TopVolunteers(t *testing.T) {
	now := time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		rows: []LeaderboardRow{
			{
				FirstName:     "Jane",
				LastName:      "Doe",
				SchoolAbbr:    null.StringFrom("NHS"),
				RegionAbbr:    null.StringFrom("NE"),
				Country:       null.StringFrom("USA"),
				TrainingLevel: null.StringFrom("Advanced"),
				Rank:          null.StringFrom("Captain"),
				StartDate:     null.TimeFrom(now.AddDate(-2, -1, 0)),
				TotalHours:    120,
			},
			{
				FirstName:  "John",
				LastName:   "Smith",
				TotalHours: 80,
			},
		},
	}
	svc := &service{repo: repo, nowFunc: func() time.Time { return now }}

	vols, err := svc.TopVolunteers(context.Background())
	if err != nil {
		t.Fatalf("TopVolunteers() failed: %v", err)
	}
	want := []TopVolunteer{
		{Name: "Jane Doe", School: "NHS", Org: "NE", Loc: "USA", Lvl: "Advanced", Yrs: 2, Hrs: 120, Rnk: "Captain"},
		{Name: "John Smith", School: "_", Org: "_", Loc: "_", Lvl: "_", Yrs: 0, Hrs: 80, Rnk: "_"},
	}
	if len(vols) != len(want) {
		t.Fatalf("TopVolunteers() returned %d rows, want %d", len(vols), len(want))
	}
	for i, v := range vols {
		if v != want[i] {
			t.Errorf("TopVolunteers()[%d] = %+v, want %+v", i, v, want[i])
		}
	}
}
