package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"nfc-event-system/models"
	"nfc-event-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DistributionService is the ledger: it owns every state transition on
// the per-item collection flags.
type DistributionService struct {
	DB *gorm.DB
}

func NewDistributionService(db *gorm.DB) *DistributionService {
	return &DistributionService{DB: db}
}

var (
	ErrUnknownItem  = errors.New("unknown item key")
	ErrTeamNotFound = errors.New("team not found")
)

type DistributeStatus string

const (
	DistributeSuccess  DistributeStatus = "success"
	DistributeAlready  DistributeStatus = "already_collected"
	DistributeNotFound DistributeStatus = "not_found"
)

// DistributeOutcome reports what a single distribute call did.
type DistributeOutcome struct {
	Status  DistributeStatus
	Name    string
	College string
	Label   string
}

// Distribute marks one item as collected by the participant holding uid.
// The row lock held across the check-then-set serializes concurrent scans
// of the same tag: exactly one caller observes success, every other call
// (concurrent or later) observes already_collected. Unknown tags are
// logged for triage and reported as not found.
func (s *DistributionService) Distribute(uid, itemKey string) (DistributeOutcome, error) {
	item, ok := models.ItemByKey(itemKey)
	if !ok {
		return DistributeOutcome{}, fmt.Errorf("%w: %q", ErrUnknownItem, itemKey)
	}
	uid = utils.NormalizeUID(uid)

	var out DistributeOutcome
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Participant
		if err := forUpdate(tx).Where("uid = ?", uid).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				out = DistributeOutcome{Status: DistributeNotFound, Label: item.Label}
				return nil
			}
			return err
		}

		out = DistributeOutcome{Name: p.Name, College: p.College, Label: item.Label}
		if item.Collected(&p) {
			out.Status = DistributeAlready
			return nil
		}

		now := time.Now()
		if err := tx.Model(&models.Participant{}).Where("uid = ?", uid).
			Updates(map[string]interface{}{item.Column: true, item.TimeColumn: now}).Error; err != nil {
			return err
		}
		out.Status = DistributeSuccess
		return nil
	})
	if err != nil {
		return DistributeOutcome{}, err
	}

	if out.Status == DistributeNotFound {
		recordUnknownScan(s.DB, uid, "give-"+item.Route)
	}
	return out, nil
}

// TeamDistributionResult partitions a team's members after a bulk apply.
// The two uid lists together always equal the team's member set.
type TeamDistributionResult struct {
	TeamID           string
	TeamName         string
	Item             string
	Distributed      []string
	AlreadyCollected []string
}

// DistributeTeam applies one item to every member of a team in a single
// transaction. Members already holding the item are reported without
// mutation; a team with zero members yields two empty lists. The item key
// is validated before any row is touched.
func (s *DistributionService) DistributeTeam(teamID, itemKey string) (*TeamDistributionResult, error) {
	item, ok := models.ItemByKey(itemKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, itemKey)
	}

	res := &TeamDistributionResult{
		Item:             item.Key,
		Distributed:      []string{},
		AlreadyCollected: []string{},
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.Where("team_id = ?", teamID).First(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return err
		}
		res.TeamID = team.TeamID
		res.TeamName = team.TeamName

		var members []models.Participant
		if err := forUpdate(tx).Where("team_id = ?", team.ID).Order("name").Find(&members).Error; err != nil {
			return err
		}

		now := time.Now()
		for i := range members {
			m := &members[i]
			if item.Collected(m) {
				res.AlreadyCollected = append(res.AlreadyCollected, m.UID)
				continue
			}
			if err := tx.Model(&models.Participant{}).Where("id = ?", m.ID).
				Updates(map[string]interface{}{item.Column: true, item.TimeColumn: now}).Error; err != nil {
				return err
			}
			res.Distributed = append(res.Distributed, m.UID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LEDGER] %s for team %s: %d distributed, %d already had it",
		item.Label, res.TeamID, len(res.Distributed), len(res.AlreadyCollected))
	return res, nil
}

type uidRequest struct {
	UID string `json:"uid"`
}

// GiveItem builds the handler for POST /give-{item}/.
func (s *DistributionService) GiveItem(itemKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req uidRequest
		if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.UID) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "uid is required",
			})
		}

		out, err := s.Distribute(req.UID, itemKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "distribution failed",
			})
		}

		switch out.Status {
		case DistributeNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "invalid",
				"message": "No participant found with this NFC tag.",
			})
		case DistributeAlready:
			return c.JSON(fiber.Map{
				"status":  "already_collected",
				"message": fmt.Sprintf("%s already collected by %s.", out.Label, out.Name),
				"name":    out.Name,
				"college": out.College,
			})
		default:
			return c.JSON(fiber.Map{
				"status":  "success",
				"message": fmt.Sprintf("%s given to %s.", out.Label, out.Name),
				"name":    out.Name,
				"college": out.College,
			})
		}
	}
}

// DistributeTeamEndpoint handles POST /distribute-team.
func (s *DistributionService) DistributeTeamEndpoint(c *fiber.Ctx) error {
	var req struct {
		TeamID string `json:"team_id"`
		Item   string `json:"item"`
	}
	if err := c.BodyParser(&req); err != nil || req.TeamID == "" || req.Item == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "team_id and item are required",
		})
	}

	res, err := s.DistributeTeam(req.TeamID, req.Item)
	if err != nil {
		if errors.Is(err, ErrUnknownItem) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": fmt.Sprintf("invalid item %q", req.Item),
			})
		}
		if errors.Is(err, ErrTeamNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "No team found with this id.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "team distribution failed",
		})
	}

	return c.JSON(fiber.Map{
		"status":            "success",
		"team_id":           res.TeamID,
		"team_name":         res.TeamName,
		"item":              res.Item,
		"distributed":       res.Distributed,
		"already_collected": res.AlreadyCollected,
	})
}
