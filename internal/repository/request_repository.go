package repository

import (
	"context"
	"errors"

	"skillswap/internal/database"
	"skillswap/internal/domain/request"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresRequestRepository struct {
	db database.DB
}

func NewPostgresRequestRepository(db database.DB) *PostgresRequestRepository {
	return &PostgresRequestRepository{db: db}
}

// Participants and skills are hydrated through LEFT JOINs: a request whose
// sender row is gone still comes back, with a nil Sender, so the lifecycle
// engine can flag it as corrupt instead of the row silently vanishing.
const requestSelect = `
	SELECT r.id, r.status, r.is_read, r.created_at, r.updated_at,
	       snd.id, snd.name,
	       rcv.id, rcv.name,
	       ofs.id, ofs.title, ofs.owner_id,
	       rqs.id, rqs.title, rqs.owner_id
	FROM exchange_requests r
	LEFT JOIN users snd ON snd.id = r.sender_id
	LEFT JOIN users rcv ON rcv.id = r.receiver_id
	LEFT JOIN skills ofs ON ofs.id = r.offered_skill_id
	LEFT JOIN skills rqs ON rqs.id = r.requested_skill_id`

func (r *PostgresRequestRepository) Create(ctx context.Context, req request.ExchangeRequest) error {
	var senderID, receiverID *uuid.UUID
	if req.Sender != nil {
		senderID = &req.Sender.ID
	}
	if req.Receiver != nil {
		receiverID = &req.Receiver.ID
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO exchange_requests
		 (id, sender_id, receiver_id, offered_skill_id, requested_skill_id, status, is_read)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		req.ID, senderID, receiverID, req.OfferedSkill.ID, req.RequestedSkill.ID,
		string(req.Status), req.IsRead,
	)
	return err
}

func (r *PostgresRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (request.ExchangeRequest, error) {
	row := r.db.QueryRow(ctx, requestSelect+` WHERE r.id = $1`, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.ExchangeRequest{}, request.ErrNotFound
		}
		return request.ExchangeRequest{}, err
	}
	return req, nil
}

func (r *PostgresRequestRepository) ListByReceiver(ctx context.Context, receiverID uuid.UUID, statuses []request.Status) ([]request.ExchangeRequest, error) {
	rows, err := r.db.Query(ctx,
		requestSelect+` WHERE r.receiver_id = $1 AND r.status = ANY($2) ORDER BY r.created_at DESC`,
		receiverID, statusStrings(statuses),
	)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (r *PostgresRequestRepository) ListBySender(ctx context.Context, senderID uuid.UUID, statuses []request.Status) ([]request.ExchangeRequest, error) {
	rows, err := r.db.Query(ctx,
		requestSelect+` WHERE r.sender_id = $1 AND r.status = ANY($2) ORDER BY r.created_at DESC`,
		senderID, statusStrings(statuses),
	)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (r *PostgresRequestRepository) Update(ctx context.Context, id uuid.UUID, status request.Status, isRead bool) error {
	n, err := r.db.Exec(ctx,
		`UPDATE exchange_requests SET status = $2, is_read = $3, updated_at = now() WHERE id = $1`,
		id, string(status), isRead,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return request.ErrNotFound
	}
	return nil
}

func (r *PostgresRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM exchange_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return request.ErrNotFound
	}
	return nil
}

func statusStrings(statuses []request.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func scanRequest(row database.Row) (request.ExchangeRequest, error) {
	var (
		req                    request.ExchangeRequest
		status                 string
		senderID, receiverID   *uuid.UUID
		senderName, recvName   *string
		offeredID, requestedID *uuid.UUID
		offeredTitle           *string
		requestedTitle         *string
		offeredOwner           *uuid.UUID
		requestedOwner         *uuid.UUID
	)

	err := row.Scan(
		&req.ID, &status, &req.IsRead, &req.CreatedAt, &req.UpdatedAt,
		&senderID, &senderName,
		&receiverID, &recvName,
		&offeredID, &offeredTitle, &offeredOwner,
		&requestedID, &requestedTitle, &requestedOwner,
	)
	if err != nil {
		return request.ExchangeRequest{}, err
	}

	req.Status = request.Status(status)
	if senderID != nil {
		req.Sender = &request.Participant{ID: *senderID, Name: deref(senderName)}
	}
	if receiverID != nil {
		req.Receiver = &request.Participant{ID: *receiverID, Name: deref(recvName)}
	}
	if offeredID != nil {
		req.OfferedSkill = request.SkillRef{ID: *offeredID, Title: deref(offeredTitle), OwnerID: derefUUID(offeredOwner)}
	}
	if requestedID != nil {
		req.RequestedSkill = request.SkillRef{ID: *requestedID, Title: deref(requestedTitle), OwnerID: derefUUID(requestedOwner)}
	}
	return req, nil
}

func collectRequests(rows database.Rows) ([]request.ExchangeRequest, error) {
	defer rows.Close()

	out := make([]request.ExchangeRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefUUID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
