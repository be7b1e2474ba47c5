package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"airvault/contexts/treasury-core/custody-service/domain/entities"
	domainerrors "airvault/contexts/treasury-core/custody-service/domain/errors"
	"airvault/contexts/treasury-core/custody-service/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) EnsureAccount(ctx context.Context, accountID string, now time.Time) error {
	normalizedID := strings.TrimSpace(accountID)
	if normalizedID == "" {
		return domainerrors.ErrInvalidCustodyInput
	}
	row := accountModel{
		AccountID:  normalizedID,
		Receivable: true,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.Assignments(map[string]any{"receivable": true, "updated_at": now.UTC()}),
		}).
		Create(&row).
		Error
	if err != nil {
		return r.logError("custody_repo_ensure_account_failed", err,
			"account_id", normalizedID,
		)
	}
	return nil
}

func (r *Repository) GetAccount(ctx context.Context, accountID string) (entities.Account, bool, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", strings.TrimSpace(accountID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, false, nil
		}
		return entities.Account{}, false, r.logError("custody_repo_get_account_failed", err,
			"account_id", strings.TrimSpace(accountID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CreditAccount(ctx context.Context, accountID string, amount uint64, now time.Time) (entities.Account, error) {
	normalizedID := strings.TrimSpace(accountID)
	var updated accountModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row accountModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account_id = ?", normalizedID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrAccountNotFound
			}
			return err
		}
		row.Balance += amount
		row.UpdatedAt = now.UTC()
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		updated = row
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			return entities.Account{}, err
		}
		return entities.Account{}, r.logError("custody_repo_credit_account_failed", err,
			"account_id", normalizedID,
			"amount", amount,
		)
	}
	return updated.toEntity(), nil
}

// TransferFunds locks both rows (stable order to avoid deadlocks) and applies
// the debit and credit in one transaction.
func (r *Repository) TransferFunds(ctx context.Context, fromAccountID string, toAccountID string, amount uint64, now time.Time) error {
	from := strings.TrimSpace(fromAccountID)
	to := strings.TrimSpace(toAccountID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		first, second := from, to
		if second < first {
			first, second = second, first
		}
		rows := make(map[string]*accountModel, 2)
		for _, accountID := range []string{first, second} {
			var row accountModel
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("account_id = ?", accountID).
				First(&row).
				Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrAccountNotFound
				}
				return err
			}
			rows[accountID] = &row
		}
		source := rows[from]
		target := rows[to]
		if source.Balance < amount {
			return domainerrors.ErrInsufficientAccountFunds
		}
		source.Balance -= amount
		source.UpdatedAt = now.UTC()
		target.Balance += amount
		target.UpdatedAt = now.UTC()
		if err := tx.Save(source).Error; err != nil {
			return err
		}
		return tx.Save(target).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) ||
			errors.Is(err, domainerrors.ErrInsufficientAccountFunds) {
			return err
		}
		return r.logError("custody_repo_transfer_funds_failed", err,
			"from_account_id", from,
			"to_account_id", to,
			"amount", amount,
		)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "treasury-core/custody-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("custody repository operation failed", fields...)
	return err
}

type accountModel struct {
	AccountID  string    `gorm:"column:account_id;primaryKey"`
	Balance    uint64    `gorm:"column:balance"`
	Receivable bool      `gorm:"column:receivable"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string {
	return "custody_accounts"
}

func (m accountModel) toEntity() entities.Account {
	return entities.Account{
		AccountID:  m.AccountID,
		Balance:    m.Balance,
		Receivable: m.Receivable,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

var _ ports.AccountStore = (*Repository)(nil)
