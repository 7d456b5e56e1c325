package services

import (
	"testing"

	"nfc-event-system/models"
)

func TestReportService_Scan(t *testing.T) {
	db := openTestDB(t)
	service := NewReportService(db)
	distribution := NewDistributionService(db)

	team := createTeam(t, db, "team_phoenix", "Team Phoenix")
	db.Model(team).Update("team_color", "#FF6B6B")
	createParticipant(t, db, "04A23B1C5D6E01", "Rahul Kumar", "MRU", team)
	createParticipant(t, db, "04A23B1C5D6E02", "Priya Sharma", "MRU", team)
	createParticipant(t, db, "04A23B1C5D6E80", "Arun Nair", "IIT Madras", nil)

	if _, err := distribution.Distribute("04A23B1C5D6E01", "breakfast"); err != nil {
		t.Fatalf("seed breakfast: %v", err)
	}

	t.Run("team member snapshot", func(t *testing.T) {
		res, err := service.Scan("04A23B1C5D6E01")
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		if res.Status != ScanValid {
			t.Fatalf("expected valid, got %s", res.Status)
		}
		if !res.Participant.ItemStates()["breakfast"] {
			t.Error("breakfast state missing from snapshot")
		}
		if res.TeamID != "team_phoenix" || res.TeamName != "Team Phoenix" {
			t.Errorf("wrong team context: %s / %s", res.TeamID, res.TeamName)
		}
		if res.TeamColor != "#FF6B6B" {
			t.Errorf("wrong team color: %s", res.TeamColor)
		}
		if res.TeamSize != 2 {
			t.Errorf("expected team size 2, got %d", res.TeamSize)
		}
	})

	t.Run("solo participant gets sentinels", func(t *testing.T) {
		res, err := service.Scan("04A23B1C5D6E80")
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		if res.TeamName != models.SoloTeamName {
			t.Errorf("expected %q, got %q", models.SoloTeamName, res.TeamName)
		}
		if res.TeamColor != models.DefaultTeamColor {
			t.Errorf("expected default color, got %s", res.TeamColor)
		}
		if res.TeamSize != 1 {
			t.Errorf("expected team size 1, got %d", res.TeamSize)
		}
	})

	t.Run("lowercase uid resolves the same record", func(t *testing.T) {
		res, err := service.Scan("04a23b1c5d6e80")
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		if res.Status != ScanValid || res.Participant.Name != "Arun Nair" {
			t.Errorf("normalized scan did not resolve: %+v", res)
		}
	})

	t.Run("unknown uid is unregistered, not invalid", func(t *testing.T) {
		res, err := service.Scan("AABBCCDDEEFF22")
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		if res.Status != ScanUnregistered {
			t.Fatalf("expected unregistered, got %s", res.Status)
		}

		var scans int64
		if err := db.Model(&models.UnknownScan{}).
			Where("uid = ? AND source = ?", "AABBCCDDEEFF22", "scan").Count(&scans).Error; err != nil {
			t.Fatalf("count unknown scans: %v", err)
		}
		if scans != 1 {
			t.Errorf("expected triage entry, found %d", scans)
		}
	})

	t.Run("malformed uid is invalid", func(t *testing.T) {
		res, err := service.Scan("not a tag")
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		if res.Status != ScanInvalid {
			t.Fatalf("expected invalid, got %s", res.Status)
		}
	})
}

func TestReportService_DashboardStats(t *testing.T) {
	db := openTestDB(t)
	service := NewReportService(db)
	distribution := NewDistributionService(db)

	t.Run("empty event", func(t *testing.T) {
		stats, err := service.DashboardStats()
		if err != nil {
			t.Fatalf("DashboardStats: %v", err)
		}
		if stats.TotalParticipants != 0 || stats.TotalTeams != 0 {
			t.Errorf("expected zero totals, got %+v", stats)
		}
		if stats.AverageTeamSize != 0 {
			t.Errorf("average team size must be 0 with no teams, got %v", stats.AverageTeamSize)
		}
	})

	phoenix := createTeam(t, db, "team_phoenix", "Team Phoenix")
	titan := createTeam(t, db, "team_titan", "Team Titan")
	createParticipant(t, db, "04A23B1C5D6E01", "Rahul Kumar", "MRU", phoenix)
	createParticipant(t, db, "04A23B1C5D6E02", "Priya Sharma", "MRU", phoenix)
	createParticipant(t, db, "04A23B1C5D6E03", "Amit Patel", "IIT Delhi", titan)
	createParticipant(t, db, "04A23B1C5D6E80", "Arun Nair", "IIT Madras", nil)

	if _, err := distribution.Distribute("04A23B1C5D6E01", "lunch"); err != nil {
		t.Fatalf("seed lunch: %v", err)
	}
	if _, err := distribution.Distribute("04A23B1C5D6E03", "lunch"); err != nil {
		t.Fatalf("seed lunch: %v", err)
	}

	t.Run("computed totals", func(t *testing.T) {
		stats, err := service.DashboardStats()
		if err != nil {
			t.Fatalf("DashboardStats: %v", err)
		}
		if stats.TotalParticipants != 4 || stats.TotalTeams != 2 || stats.SoloParticipants != 1 {
			t.Errorf("unexpected totals: %+v", stats)
		}
		// 3 team-bound participants across 2 teams.
		if stats.AverageTeamSize != 1.5 {
			t.Errorf("expected average team size 1.5, got %v", stats.AverageTeamSize)
		}
		if stats.Collected["lunch"] != 2 {
			t.Errorf("expected 2 lunches collected, got %d", stats.Collected["lunch"])
		}
		if stats.Collected["dinner"] != 0 {
			t.Errorf("expected 0 dinners collected, got %d", stats.Collected["dinner"])
		}
	})
}

func TestReportService_Leaderboard(t *testing.T) {
	t.Run("completion rate rounding", func(t *testing.T) {
		db := openTestDB(t)
		service := NewReportService(db)
		distribution := NewDistributionService(db)

		team := createTeam(t, db, "team_phoenix", "Team Phoenix")
		full := createParticipant(t, db, "04A23B1C5D6E01", "Rahul Kumar", "MRU", team)
		createParticipant(t, db, "04A23B1C5D6E02", "Priya Sharma", "MRU", team)
		createParticipant(t, db, "04A23B1C5D6E03", "Amit Patel", "MRU", team)

		for _, item := range models.Items {
			if _, err := distribution.Distribute(full.UID, item.Key); err != nil {
				t.Fatalf("seed %s: %v", item.Key, err)
			}
		}

		// Zero-member teams never appear.
		createTeam(t, db, "team_ghost", "Team Ghost")

		standings, err := service.Leaderboard()
		if err != nil {
			t.Fatalf("Leaderboard: %v", err)
		}
		if len(standings) != 1 {
			t.Fatalf("expected 1 standing, got %d", len(standings))
		}
		// 6 of 18 flags collected.
		if standings[0].CompletionRate != 33.3 {
			t.Errorf("expected completion rate 33.3, got %v", standings[0].CompletionRate)
		}
		if standings[0].MemberCount != 3 {
			t.Errorf("expected 3 members, got %d", standings[0].MemberCount)
		}
	})

	t.Run("sorted and truncated to top 10", func(t *testing.T) {
		db := openTestDB(t)
		service := NewReportService(db)
		distribution := NewDistributionService(db)

		uids := []string{
			"04A23B1C5D0001", "04A23B1C5D0002", "04A23B1C5D0003", "04A23B1C5D0004",
			"04A23B1C5D0005", "04A23B1C5D0006", "04A23B1C5D0007", "04A23B1C5D0008",
			"04A23B1C5D0009", "04A23B1C5D0010", "04A23B1C5D0011", "04A23B1C5D0012",
		}
		for i, uid := range uids {
			team := createTeam(t, db, uids[i], "Team "+uid)
			createParticipant(t, db, uid, "Member "+uid, "MRU", team)
		}
		// First team completes everything, second only breakfast.
		for _, item := range models.Items {
			if _, err := distribution.Distribute(uids[0], item.Key); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		if _, err := distribution.Distribute(uids[1], "breakfast"); err != nil {
			t.Fatalf("seed: %v", err)
		}

		standings, err := service.Leaderboard()
		if err != nil {
			t.Fatalf("Leaderboard: %v", err)
		}
		if len(standings) != 10 {
			t.Fatalf("expected top 10, got %d", len(standings))
		}
		if standings[0].TeamID != uids[0] || standings[0].CompletionRate != 100 {
			t.Errorf("wrong leader: %+v", standings[0])
		}
		if standings[1].TeamID != uids[1] || standings[1].CompletionRate != 16.7 {
			t.Errorf("wrong runner-up: %+v", standings[1])
		}
	})
}

func TestReportService_TeamDetails(t *testing.T) {
	db := openTestDB(t)
	service := NewReportService(db)
	distribution := NewDistributionService(db)

	team := createTeam(t, db, "team_phoenix", "Team Phoenix")
	createParticipant(t, db, "04A23B1C5D6E01", "Rahul Kumar", "MRU", team)
	createParticipant(t, db, "04A23B1C5D6E02", "Priya Sharma", "MRU", team)
	createParticipant(t, db, "04A23B1C5D6E03", "Amit Patel", "MRU", team)

	if _, err := distribution.Distribute("04A23B1C5D6E01", "lunch"); err != nil {
		t.Fatalf("seed lunch: %v", err)
	}

	details, err := service.TeamDetails("team_phoenix")
	if err != nil {
		t.Fatalf("TeamDetails: %v", err)
	}
	if len(details.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(details.Members))
	}
	if details.Progress["lunch"] != "1/3" {
		t.Errorf("expected lunch progress 1/3, got %s", details.Progress["lunch"])
	}
	if details.Progress["dinner"] != "0/3" {
		t.Errorf("expected dinner progress 0/3, got %s", details.Progress["dinner"])
	}

	if _, err := service.TeamDetails("team_ghost"); err != ErrTeamNotFound {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestReportService_Attendees(t *testing.T) {
	db := openTestDB(t)
	service := NewReportService(db)
	distribution := NewDistributionService(db)

	team := createTeam(t, db, "team_phoenix", "Team Phoenix")
	createParticipant(t, db, "04A23B1C5D6E01", "Rahul Kumar", "MRU", team)
	createParticipant(t, db, "04A23B1C5D6E02", "Priya Sharma", "MRU", team)
	createParticipant(t, db, "04A23B1C5D6E80", "Arun Nair", "IIT Madras", nil)

	if _, err := distribution.Distribute("04A23B1C5D6E01", "registration_goodies"); err != nil {
		t.Fatalf("seed registration: %v", err)
	}

	cases := []struct {
		name   string
		search string
		filter string
		want   int
	}{
		{"all", "", "all", 3},
		{"solo filter", "", "solo", 1},
		{"team filter", "", "team", 2},
		{"checked in", "", "checked_in", 1},
		{"not checked in", "", "not_checked_in", 2},
		{"search by team name", "phoenix", "all", 2},
		{"search by college", "iit", "all", 1},
		{"search by name", "RAHUL", "all", 1},
		{"search by uid", "5d6e80", "all", 1},
		{"search with filter", "phoenix", "checked_in", 1},
		{"no match", "nobody", "all", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.Attendees(tc.search, tc.filter)
			if err != nil {
				t.Fatalf("Attendees: %v", err)
			}
			if len(got) != tc.want {
				t.Errorf("expected %d attendees, got %d", tc.want, len(got))
			}
		})
	}

	t.Run("unknown filter", func(t *testing.T) {
		if _, err := service.Attendees("", "vip"); err == nil {
			t.Fatal("expected error for unknown filter")
		}
	})
}
