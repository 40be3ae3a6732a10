package services

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"referral-service/internal/models"

	"gorm.io/gorm"
)

// CommissionArchiveService moves old commission records into the archive
// table so the hot distribution_commissions table stays small. Records are
// immutable once confirmed, so the move never races a mutation.
type CommissionArchiveService struct {
	DB *gorm.DB
}

func NewCommissionArchiveService(db *gorm.DB) *CommissionArchiveService {
	return &CommissionArchiveService{DB: db}
}

// ArchiveCommissions moves confirmed records older than 4 months.
func (s *CommissionArchiveService) ArchiveCommissions() {
	log.Println("Starting commission archive process...")

	cutoff := time.Now().AddDate(0, -4, 0)

	var oldRecords []models.CommissionRecord
	if err := s.DB.Where("created_at < ? AND status = ?", cutoff, models.CommissionStatusConfirmed).
		Find(&oldRecords).Error; err != nil {
		log.Printf("Error finding old commission records: %v", err)
		return
	}

	if len(oldRecords) == 0 {
		log.Println("No commission records to archive")
		return
	}

	log.Printf("Found %d commission records to archive", len(oldRecords))

	archived := make([]models.ArchivedCommission, 0, len(oldRecords))
	for _, rec := range oldRecords {
		archived = append(archived, models.ArchivedCommission{
			OrderID:          rec.OrderID,
			BuyerID:          rec.BuyerID,
			DistributorID:    rec.DistributorID,
			Level:            rec.Level,
			OrderAmount:      rec.OrderAmount,
			CommissionRate:   rec.CommissionRate,
			CommissionAmount: rec.CommissionAmount,
			Status:           rec.Status,
			SettledAt:        rec.SettledAt,
			CreatedAt:        rec.CreatedAt,
		})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&archived).Error; err != nil {
			return err
		}

		ids := make([]int, len(oldRecords))
		for i, rec := range oldRecords {
			ids[i] = rec.ID
		}
		return tx.Delete(&models.CommissionRecord{}, ids).Error
	})

	if err != nil {
		log.Printf("Error during commission archiving: %v", err)
	} else {
		log.Printf("Archived and removed %d commission records.", len(oldRecords))
	}
}

// StartScheduler runs the archive job daily at midnight.
func (s *CommissionArchiveService) StartScheduler() {
	c := cron.New()
	_, err := c.AddFunc("0 0 * * *", func() {
		log.Println("Running scheduled commission archive task...")
		s.ArchiveCommissions()
	})
	if err != nil {
		log.Printf("Error scheduling archive task: %v", err)
		return
	}
	c.Start()
	log.Println("Commission Archive Scheduler started (Daily at 00:00)")
}
