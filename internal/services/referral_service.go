package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"referral-service/internal/models"
	"referral-service/pkg/common"

	"gorm.io/gorm"
)

// Commission reaches at most three levels up the chain.
const MaxChainDepth = 3

// Safety bound for the acyclicity walk; chains are expected to be short but
// the check must terminate even on corrupted data.
const maxCycleWalk = 64

// ReferralService stores invitee -> inviter edges and resolves chains over
// them.
type ReferralService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewReferralService(db *gorm.DB, ledger *LedgerService) *ReferralService {
	return &ReferralService{DB: db, Ledger: ledger}
}

type ChainMember struct {
	UserID int
	Level  int
}

// AncestorChain walks parent pointers upward from userID, stopping after
// MaxChainDepth hops or when no further inviter exists.
func (s *ReferralService) AncestorChain(userID int) ([]ChainMember, error) {
	chain := make([]ChainMember, 0, MaxChainDepth)

	current := userID
	for level := 1; level <= MaxChainDepth; level++ {
		var edge models.ReferralEdge
		err := s.DB.Where("user_id = ?", current).First(&edge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return nil, common.NewInternalError("failed to resolve ancestor chain", err)
		}
		chain = append(chain, ChainMember{UserID: edge.InviterID, Level: level})
		current = edge.InviterID
	}

	return chain, nil
}

// isDescendant reports whether candidate is a transitive descendant of
// userID, i.e. userID appears among candidate's ancestors.
func (s *ReferralService) isDescendant(candidate, userID int) (bool, error) {
	current := candidate
	for i := 0; i < maxCycleWalk; i++ {
		var edge models.ReferralEdge
		err := s.DB.Where("user_id = ?", current).First(&edge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, common.NewInternalError("failed to check invitation chain", err)
		}
		if edge.InviterID == userID {
			return true, nil
		}
		current = edge.InviterID
	}
	return false, nil
}

// Bind attaches userID to the holder of inviterCode. The edge insert and all
// ancestor counter increments commit together or not at all.
func (s *ReferralService) Bind(userID int, inviterCode string) error {
	inviterCode = strings.TrimSpace(inviterCode)
	if inviterCode == "" {
		return common.NewValidationError("invitation code is required")
	}

	var inviter models.User
	err := s.DB.Where("invitation_code = ?", inviterCode).First(&inviter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.NewNotFoundError("invitation code is invalid")
	}
	if err != nil {
		return common.NewInternalError("failed to look up invitation code", err)
	}

	if inviter.ID == userID {
		return common.NewInvalidOperationError("cannot use your own invitation code")
	}

	var existing models.ReferralEdge
	err = s.DB.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return common.NewConflictError("an inviter is already bound")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return common.NewInternalError("failed to check existing binding", err)
	}

	// An inviter that descends from the invitee would close a cycle.
	cyclic, err := s.isDescendant(inviter.ID, userID)
	if err != nil {
		return err
	}
	if cyclic {
		return common.NewInvalidOperationError("cannot bind an inviter from your own team")
	}

	ancestors, err := s.AncestorChain(inviter.ID)
	if err != nil {
		return err
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		edge := models.ReferralEdge{UserID: userID, InviterID: inviter.ID, Level: 1}
		if err := tx.Create(&edge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return common.NewConflictError("an inviter is already bound")
			}
			return common.NewInternalError("failed to create invitation edge", err)
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND (inviter_code IS NULL OR inviter_code = '')", userID).
			Update("inviter_code", inviterCode)
		if res.Error != nil {
			return common.NewInternalError("failed to record inviter code", res.Error)
		}

		if err := s.incrementInvited(tx, inviter.ID, 1); err != nil {
			return err
		}
		for _, ancestor := range ancestors {
			level := ancestor.Level + 1
			if level > MaxChainDepth {
				break
			}
			if err := s.incrementInvited(tx, ancestor.UserID, level); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return common.AsError(txErr)
	}
	return nil
}

func (s *ReferralService) incrementInvited(tx *gorm.DB, userID, level int) error {
	if err := s.Ledger.EnsureAccount(tx, userID); err != nil {
		return err
	}
	column := fmt.Sprintf("level%d_invited", level)
	res := tx.Model(&models.CommissionAccount{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"total_invited": gorm.Expr("total_invited + 1"),
			column:          gorm.Expr(column + " + 1"),
		})
	if res.Error != nil {
		return common.NewInternalError("failed to update invitation counters", res.Error)
	}
	return nil
}

type TeamMember struct {
	UserID                int       `json:"user_id"`
	Username              string    `json:"username"`
	Email                 string    `json:"email"`
	Level                 int       `json:"level"`
	RegisterTime          time.Time `json:"register_time"`
	ContributedCommission float64   `json:"contributed_commission"`
}

// Team returns the flattened list of descendants down to maxLevel (clamped
// to 1..MaxChainDepth), each with the commission their purchases have
// generated so far.
func (s *ReferralService) Team(userID, maxLevel int) ([]TeamMember, error) {
	if maxLevel < 1 {
		maxLevel = 1
	}
	if maxLevel > MaxChainDepth {
		maxLevel = MaxChainDepth
	}

	members := []TeamMember{}
	frontier := []int{userID}

	for level := 1; level <= maxLevel; level++ {
		if len(frontier) == 0 {
			break
		}

		var edges []models.ReferralEdge
		if err := s.DB.Where("inviter_id IN ?", frontier).Find(&edges).Error; err != nil {
			return nil, common.NewInternalError("failed to load team members", err)
		}
		if len(edges) == 0 {
			break
		}

		ids := make([]int, 0, len(edges))
		for _, e := range edges {
			ids = append(ids, e.UserID)
		}

		var users []models.User
		if err := s.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, common.NewInternalError("failed to load team members", err)
		}
		userByID := make(map[int]models.User, len(users))
		for _, u := range users {
			userByID[u.ID] = u
		}

		var accounts []models.CommissionAccount
		if err := s.DB.Where("user_id IN ?", ids).Find(&accounts).Error; err != nil {
			return nil, common.NewInternalError("failed to load team accounts", err)
		}
		totalByID := make(map[int]float64, len(accounts))
		for _, a := range accounts {
			totalByID[a.UserID] = a.TotalCommission
		}

		for _, e := range edges {
			u := userByID[e.UserID]
			members = append(members, TeamMember{
				UserID:                e.UserID,
				Username:              u.Username,
				Email:                 u.Email,
				Level:                 level,
				RegisterTime:          u.CreatedAt,
				ContributedCommission: totalByID[e.UserID],
			})
		}

		frontier = ids
	}

	return members, nil
}
