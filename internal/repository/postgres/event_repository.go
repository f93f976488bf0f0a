package postgres

import (
	"context"
	"database/sql"

	"github.com/bagdasarian/org-service/internal/domain"
	"github.com/google/uuid"
)

type eventRepository struct {
	executor DBExecutor
}

func NewEventRepository(db *sql.DB) *eventRepository {
	return &eventRepository{executor: db}
}

func (r *eventRepository) Record(ctx context.Context, event *domain.TransferEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	query := `
		INSERT INTO transfer_events (id, transfer_id, organization_id, actor_id, kind, current_owner_id, new_owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.executor.ExecContext(
		ctx,
		query,
		event.ID,
		event.TransferID,
		event.OrganizationID,
		event.ActorID,
		string(event.Kind),
		event.CurrentOwnerID,
		event.NewOwnerID,
		event.CreatedAt,
	)
	if err != nil {
		return mapPostgresError(err, "record transfer event")
	}

	return nil
}

func (r *eventRepository) ListByOrganization(ctx context.Context, orgID string, limit int) ([]*domain.TransferEvent, error) {
	if !validID(orgID) {
		return []*domain.TransferEvent{}, nil
	}

	query := `
		SELECT id, transfer_id, organization_id, actor_id, kind, current_owner_id, new_owner_id, created_at
		FROM transfer_events
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.executor.QueryContext(ctx, query, orgID, limit)
	if err != nil {
		return nil, mapPostgresError(err, "list transfer events")
	}
	defer rows.Close()

	events := make([]*domain.TransferEvent, 0)
	for rows.Next() {
		event := &domain.TransferEvent{}
		var actorID sql.NullString
		var kind string
		err := rows.Scan(
			&event.ID,
			&event.TransferID,
			&event.OrganizationID,
			&actorID,
			&kind,
			&event.CurrentOwnerID,
			&event.NewOwnerID,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if actorID.Valid {
			event.ActorID = &actorID.String
		}
		event.Kind = domain.EventKind(kind)
		events = append(events, event)
	}

	return events, rows.Err()
}
