package services

import (
	"errors"
	"log"
	"strings"

	"nfc-event-system/models"
	"nfc-event-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// RegistrationService runs the registration desk: pre-event team and slot
// setup, and linking a freshly scanned tag to a pre-registered slot.
type RegistrationService struct {
	DB *gorm.DB
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{DB: db}
}

var (
	ErrInvalidUID   = errors.New("uid is not a valid tag identifier")
	ErrSlotNotFound = errors.New("pre-registered member not found")
	ErrSlotLinked   = errors.New("slot is already linked to a tag")
	ErrUIDTaken     = errors.New("uid already belongs to a participant")
	ErrTeamExists   = errors.New("team_id already exists")
	ErrMemberExists = errors.New("member is already pre-registered for this team")
)

// RegisterTag binds a scanned tag to a pre-registered slot: it creates
// the Participant (on the slot's team) and consumes the slot in one
// transaction, so the slot is never linked without its participant.
func (s *RegistrationService) RegisterTag(uid, memberID string) (*models.Participant, error) {
	uid = utils.NormalizeUID(uid)
	if !utils.ValidUID(uid) {
		return nil, ErrInvalidUID
	}

	var participant models.Participant
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var slot models.PreRegisteredMember
		if err := forUpdate(tx).Where("id = ?", memberID).First(&slot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if slot.IsLinked {
			return ErrSlotLinked
		}

		var taken int64
		if err := tx.Model(&models.Participant{}).Where("uid = ?", uid).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrUIDTaken
		}

		participant = models.Participant{
			UID:     uid,
			Name:    slot.Name,
			College: slot.College,
			TeamID:  &slot.TeamID,
		}
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}
		return tx.Model(&models.PreRegisteredMember{}).Where("id = ?", slot.ID).
			Update("is_linked", true).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Team").First(&participant, "id = ?", participant.ID).Error; err != nil {
		return nil, err
	}
	log.Printf("[REGISTER] tag %s linked to %s (%s)", uid, participant.Name, participant.Team.TeamID)
	return &participant, nil
}

// CreateTeam registers a new team. A blank teamID is derived from the
// team name ("Team Phoenix" → "team-phoenix"); a blank color gets the
// default.
func (s *RegistrationService) CreateTeam(teamID, teamName, teamColor string) (*models.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		teamID = slug.Make(teamName)
	}

	team := models.Team{
		TeamID:    teamID,
		TeamName:  strings.TrimSpace(teamName),
		TeamColor: strings.TrimSpace(teamColor),
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Team{}).Where("team_id = ?", teamID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrTeamExists
		}
		return tx.Create(&team).Error
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// AddPreregMember adds a placeholder slot to a team. (team, name) is
// unique: the same person cannot be pre-registered twice.
func (s *RegistrationService) AddPreregMember(teamID, name, college string) (*models.PreRegisteredMember, error) {
	var member models.PreRegisteredMember
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.Where("team_id = ?", teamID).First(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.PreRegisteredMember{}).
			Where("team_id = ? AND name = ?", team.ID, name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrMemberExists
		}

		member = models.PreRegisteredMember{
			TeamID:  team.ID,
			Name:    strings.TrimSpace(name),
			College: strings.TrimSpace(college),
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListPreregTeams returns all teams with their still-unlinked slots, for
// the registration desk's pick list.
func (s *RegistrationService) ListPreregTeams() ([]models.Team, error) {
	var teams []models.Team
	err := s.DB.
		Preload("PreRegistered", "is_linked = ?", false).
		Order("team_name").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// RegisterTagEndpoint handles POST /prereg/register.
func (s *RegistrationService) RegisterTagEndpoint(c *fiber.Ctx) error {
	var req struct {
		UID            string `json:"uid"`
		PreregMemberID string `json:"prereg_member_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UID == "" || req.PreregMemberID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "uid and prereg_member_id are required",
		})
	}

	participant, err := s.RegisterTag(req.UID, req.PreregMemberID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "No pre-registered member found with this id.",
			})
		case errors.Is(err, ErrSlotLinked), errors.Is(err, ErrUIDTaken), errors.Is(err, ErrInvalidUID):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "registration failed",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "registered",
		"uid":     participant.UID,
		"name":    participant.Name,
		"team_id": participant.Team.TeamID,
	})
}

// CreateTeamEndpoint handles POST /prereg/teams/create.
func (s *RegistrationService) CreateTeamEndpoint(c *fiber.Ctx) error {
	var req struct {
		TeamID    string `json:"team_id"`
		TeamName  string `json:"team_name"`
		TeamColor string `json:"team_color"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.TeamName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "team_name is required",
		})
	}

	team, err := s.CreateTeam(req.TeamID, req.TeamName, req.TeamColor)
	if err != nil {
		if errors.Is(err, ErrTeamExists) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "A team with this id already exists.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "failed to create team",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":     "created",
		"team_id":    team.TeamID,
		"team_name":  team.TeamName,
		"team_color": team.TeamColor,
	})
}

// AddPreregMemberEndpoint handles POST /prereg/teams/:team_id/add-member.
func (s *RegistrationService) AddPreregMemberEndpoint(c *fiber.Ctx) error {
	teamID := c.Params("team_id")
	var req struct {
		Name    string `json:"name"`
		College string `json:"college"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "name is required",
		})
	}

	member, err := s.AddPreregMember(teamID, req.Name, req.College)
	if err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "No team found with this id.",
			})
		}
		if errors.Is(err, ErrMemberExists) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "This member is already pre-registered for the team.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "failed to add member",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "created",
		"id":      member.ID,
		"name":    member.Name,
		"college": member.College,
	})
}

// ListPreregTeamsEndpoint handles GET /prereg/teams.
func (s *RegistrationService) ListPreregTeamsEndpoint(c *fiber.Ctx) error {
	teams, err := s.ListPreregTeams()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "failed to list teams",
		})
	}

	out := make([]fiber.Map, 0, len(teams))
	for _, t := range teams {
		members := make([]fiber.Map, 0, len(t.PreRegistered))
		for _, m := range t.PreRegistered {
			members = append(members, fiber.Map{
				"id":      m.ID,
				"name":    m.Name,
				"college": m.College,
			})
		}
		out = append(out, fiber.Map{
			"team_id":          t.TeamID,
			"team_name":        t.TeamName,
			"team_color":       t.TeamColor,
			"unlinked_members": members,
		})
	}
	return c.JSON(fiber.Map{"status": "success", "teams": out})
}
