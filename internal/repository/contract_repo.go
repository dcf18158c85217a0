package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/TeamAthleteWebsite/team-athlete-back/internal/models"
)

type ContractRepository struct {
	db DBTX
}

func NewContractRepository(db DBTX) *ContractRepository {
	return &ContractRepository{db: db}
}

const contractColumns = "id, client_id, coach_id, start_date, end_date, total_sessions, amount, created_at, updated_at"

func scanContract(row pgx.Row) (*models.Contract, error) {
	var contract models.Contract
	err := row.Scan(
		&contract.ID,
		&contract.ClientID,
		&contract.CoachID,
		&contract.StartDate,
		&contract.EndDate,
		&contract.TotalSessions,
		&contract.Amount,
		&contract.CreatedAt,
		&contract.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) GetByID(ctx context.Context, contractID int64) (*models.Contract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE id = $1
	`
	return scanContract(r.db.QueryRow(ctx, query, contractID))
}

// GetActiveForClient returns the contract new sessions attach to: the
// one whose period covers today. With overlapping periods the most
// recently started wins.
func (r *ContractRepository) GetActiveForClient(
	ctx context.Context,
	clientID int64,
) (*models.Contract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE client_id = $1
		  AND start_date <= NOW()
		  AND end_date >= NOW()
		ORDER BY start_date DESC, id DESC
		LIMIT 1
	`
	return scanContract(r.db.QueryRow(ctx, query, clientID))
}
