package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"nfc-event-system/models"
	"nfc-event-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReportService owns the read side: scan lookups, dashboard stats, the
// team leaderboard and the attendee list. Nothing here takes locks or
// mutates participant state; stats racing a concurrent distribution may
// be momentarily stale, which is fine for a dashboard.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

type ScanStatus string

const (
	ScanValid        ScanStatus = "valid"
	ScanUnregistered ScanStatus = "unregistered"
	ScanInvalid      ScanStatus = "invalid"
)

// ScanResult is the participant snapshot plus team context returned to
// the scanner app. Solo participants get the sentinel team fields rather
// than nulls.
type ScanResult struct {
	Status      ScanStatus
	Participant *models.Participant
	TeamID      string
	TeamName    string
	TeamColor   string
	TeamSize    int64
}

// Scan resolves a tag UID to its participant. A malformed uid is
// "invalid"; a well-formed uid with no participant is "unregistered" and
// lands in the triage log — the scanner app shows the two differently.
func (s *ReportService) Scan(rawUID string) (*ScanResult, error) {
	uid := utils.NormalizeUID(rawUID)
	if !utils.ValidUID(uid) {
		return &ScanResult{Status: ScanInvalid}, nil
	}

	var p models.Participant
	if err := s.DB.Preload("Team").Where("uid = ?", uid).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			recordUnknownScan(s.DB, uid, "scan")
			return &ScanResult{Status: ScanUnregistered}, nil
		}
		return nil, err
	}

	res := &ScanResult{
		Status:      ScanValid,
		Participant: &p,
		TeamName:    models.SoloTeamName,
		TeamColor:   models.DefaultTeamColor,
		TeamSize:    1,
	}
	if p.Team != nil {
		res.TeamID = p.Team.TeamID
		res.TeamName = p.Team.TeamName
		res.TeamColor = p.Team.TeamColor
		if err := s.DB.Model(&models.Participant{}).Where("team_id = ?", p.Team.ID).
			Count(&res.TeamSize).Error; err != nil {
			return nil, err
		}
	}
	return res, nil
}

// DashboardStats are the admin dashboard totals.
type DashboardStats struct {
	TotalParticipants int64            `json:"total_participants"`
	TotalTeams        int64            `json:"total_teams"`
	SoloParticipants  int64            `json:"solo_participants"`
	AverageTeamSize   float64          `json:"average_team_size"`
	Collected         map[string]int64 `json:"collected"`
}

// DashboardStats computes the event-wide totals. Average team size is
// team-bound participants over team count, 0 when no teams exist.
func (s *ReportService) DashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{Collected: make(map[string]int64, len(models.Items))}

	if err := s.DB.Model(&models.Participant{}).Count(&stats.TotalParticipants).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Team{}).Count(&stats.TotalTeams).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Participant{}).Where("team_id IS NULL").
		Count(&stats.SoloParticipants).Error; err != nil {
		return nil, err
	}

	if stats.TotalTeams > 0 {
		bound := stats.TotalParticipants - stats.SoloParticipants
		stats.AverageTeamSize = round1(float64(bound) / float64(stats.TotalTeams))
	}

	for _, item := range models.Items {
		var n int64
		if err := s.DB.Model(&models.Participant{}).Where(item.Column+" = ?", true).
			Count(&n).Error; err != nil {
			return nil, err
		}
		stats.Collected[item.Key] = n
	}
	return stats, nil
}

// TeamStanding is one leaderboard row.
type TeamStanding struct {
	TeamID         string  `json:"team_id"`
	TeamName       string  `json:"team_name"`
	TeamColor      string  `json:"team_color"`
	MemberCount    int     `json:"member_count"`
	CompletionRate float64 `json:"completion_rate"`
}

// Leaderboard ranks teams by completion rate: collected flags over
// members×6, as a percentage with one decimal. Teams with no members are
// excluded; the result is the top 10.
func (s *ReportService) Leaderboard() ([]TeamStanding, error) {
	var teams []models.Team
	if err := s.DB.Preload("Participants").Find(&teams).Error; err != nil {
		return nil, err
	}

	standings := []TeamStanding{}
	for _, t := range teams {
		memberCount := len(t.Participants)
		if memberCount == 0 {
			continue
		}
		collected := 0
		for i := range t.Participants {
			collected += t.Participants[i].CollectedCount()
		}
		rate := round1(float64(collected) / float64(memberCount*len(models.Items)) * 100)
		standings = append(standings, TeamStanding{
			TeamID:         t.TeamID,
			TeamName:       t.TeamName,
			TeamColor:      t.TeamColor,
			MemberCount:    memberCount,
			CompletionRate: rate,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].CompletionRate > standings[j].CompletionRate
	})
	if len(standings) > 10 {
		standings = standings[:10]
	}
	return standings, nil
}

// TeamDetails is the per-team drill-down: members with their item states
// and an "x/y" progress string per item.
type TeamDetails struct {
	Team     *models.Team
	Members  []models.Participant
	Progress map[string]string
}

func (s *ReportService) TeamDetails(teamID string) (*TeamDetails, error) {
	var team models.Team
	if err := s.DB.Where("team_id = ?", teamID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	var members []models.Participant
	if err := s.DB.Where("team_id = ?", team.ID).Order("name").Find(&members).Error; err != nil {
		return nil, err
	}

	progress := make(map[string]string, len(models.Items))
	for _, item := range models.Items {
		have := 0
		for i := range members {
			if item.Collected(&members[i]) {
				have++
			}
		}
		progress[item.Key] = fmt.Sprintf("%d/%d", have, len(members))
	}

	return &TeamDetails{Team: &team, Members: members, Progress: progress}, nil
}

// Attendees lists participants matching a search term and filter. The
// search is a case-insensitive substring match over name, uid, college
// and team name, OR-combined. Filters: all, solo, team, checked_in,
// not_checked_in.
func (s *ReportService) Attendees(search, filter string) ([]models.Participant, error) {
	q := s.DB.Model(&models.Participant{}).Preload("Team").
		Joins("LEFT JOIN teams ON teams.id = participants.team_id")

	switch filter {
	case "", "all":
	case "solo":
		q = q.Where("participants.team_id IS NULL")
	case "team":
		q = q.Where("participants.team_id IS NOT NULL")
	case "checked_in":
		q = q.Where("participants.registration_goodies = ?", true)
	case "not_checked_in":
		q = q.Where("participants.registration_goodies = ?", false)
	default:
		return nil, fmt.Errorf("unknown filter %q", filter)
	}

	if term := strings.TrimSpace(search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where(
			"LOWER(participants.name) LIKE ? OR LOWER(participants.uid) LIKE ? OR LOWER(participants.college) LIKE ? OR LOWER(teams.team_name) LIKE ?",
			like, like, like, like,
		)
	}

	var out []models.Participant
	if err := q.Order("participants.name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// attendeeJSON is the wire shape for one attendee row.
func attendeeJSON(p *models.Participant) fiber.Map {
	entry := fiber.Map{
		"uid":        p.UID,
		"name":       p.Name,
		"college":    p.College,
		"team_id":    "",
		"team_name":  models.SoloTeamName,
		"team_color": models.DefaultTeamColor,
	}
	if p.Team != nil {
		entry["team_id"] = p.Team.TeamID
		entry["team_name"] = p.Team.TeamName
		entry["team_color"] = p.Team.TeamColor
	}
	for key, state := range p.ItemStates() {
		entry[key] = state
	}
	return entry
}

// ScanEndpoint handles POST /scan.
func (s *ReportService) ScanEndpoint(c *fiber.Ctx) error {
	var req uidRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.UID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "uid is required",
		})
	}

	res, err := s.Scan(req.UID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "scan failed",
		})
	}

	switch res.Status {
	case ScanInvalid:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "invalid",
			"message": "That does not look like an NFC tag UID.",
		})
	case ScanUnregistered:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "unregistered",
			"message": "No participant found with this NFC tag.",
		})
	}

	p := res.Participant
	body := fiber.Map{
		"status":     "valid",
		"uid":        p.UID,
		"name":       p.Name,
		"college":    p.College,
		"team_id":    res.TeamID,
		"team_name":  res.TeamName,
		"team_color": res.TeamColor,
		"team_size":  res.TeamSize,
	}
	for key, state := range p.ItemStates() {
		body[key] = state
	}
	return c.JSON(body)
}

// DashboardStatsEndpoint handles GET /stats.
func (s *ReportService) DashboardStatsEndpoint(c *fiber.Ctx) error {
	stats, err := s.DashboardStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "failed to compute stats",
		})
	}
	return c.JSON(stats)
}

// TeamsStatsEndpoint handles GET /teams/stats.
func (s *ReportService) TeamsStatsEndpoint(c *fiber.Ctx) error {
	stats, err := s.DashboardStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "failed to compute stats",
		})
	}
	standings, err := s.Leaderboard()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "failed to compute leaderboard",
		})
	}
	return c.JSON(fiber.Map{
		"total_teams":        stats.TotalTeams,
		"total_participants": stats.TotalParticipants,
		"average_team_size":  stats.AverageTeamSize,
		"leaderboard":        standings,
	})
}

// TeamDetailsEndpoint handles GET /team/:team_id.
func (s *ReportService) TeamDetailsEndpoint(c *fiber.Ctx) error {
	details, err := s.TeamDetails(c.Params("team_id"))
	if err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "No team found with this id.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "failed to load team",
		})
	}

	members := make([]fiber.Map, 0, len(details.Members))
	for i := range details.Members {
		members = append(members, attendeeJSON(&details.Members[i]))
	}
	return c.JSON(fiber.Map{
		"team_id":    details.Team.TeamID,
		"team_name":  details.Team.TeamName,
		"team_color": details.Team.TeamColor,
		"members":    members,
		"progress":   details.Progress,
	})
}

// AttendeesEndpoint handles GET /attendees with search, filter and view
// query params. view=team groups rows by team, with a synthetic
// "Individual Participants" group collecting the solo attendees.
func (s *ReportService) AttendeesEndpoint(c *fiber.Ctx) error {
	search := c.Query("search")
	filter := c.Query("filter", "all")
	view := c.Query("view", "list")

	attendees, err := s.Attendees(search, filter)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	if view != "team" {
		rows := make([]fiber.Map, 0, len(attendees))
		for i := range attendees {
			rows = append(rows, attendeeJSON(&attendees[i]))
		}
		return c.JSON(fiber.Map{"status": "success", "count": len(rows), "attendees": rows})
	}

	type group struct {
		teamID   string
		teamName string
		color    string
		members  []fiber.Map
	}
	groups := []*group{}
	index := map[string]*group{}
	solo := &group{teamName: "Individual Participants", color: models.DefaultTeamColor, members: []fiber.Map{}}

	for i := range attendees {
		p := &attendees[i]
		if p.Team == nil {
			solo.members = append(solo.members, attendeeJSON(p))
			continue
		}
		g, ok := index[p.Team.TeamID]
		if !ok {
			g = &group{teamID: p.Team.TeamID, teamName: p.Team.TeamName, color: p.Team.TeamColor}
			index[p.Team.TeamID] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, attendeeJSON(p))
	}
	if len(solo.members) > 0 {
		groups = append(groups, solo)
	}

	out := make([]fiber.Map, 0, len(groups))
	for _, g := range groups {
		out = append(out, fiber.Map{
			"team_id":    g.teamID,
			"team_name":  g.teamName,
			"team_color": g.color,
			"members":    g.members,
		})
	}
	return c.JSON(fiber.Map{"status": "success", "count": len(attendees), "groups": out})
}
