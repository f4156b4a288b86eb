package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Nenad034/OlympicHub-sub000/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertPriceList(ctx context.Context, pl domain.PriceList) error {
	doc, err := json.Marshal(pl)
	if err != nil {
		return fmt.Errorf("marshal price list %s: %w", pl.ID, err)
	}
	_, err = r.db.ExecContext(ctx, upsertPriceListSQL,
		pl.ID,
		pl.PropertyID,
		pl.Name,
		pl.ValidFrom,
		pl.ValidTo,
		string(pl.ValidationStatus),
		pl.ImportSource,
		string(doc),
	)
	return err
}

func (r *Repo) GetPriceList(ctx context.Context, id string) (domain.PriceList, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, getPriceListSQL, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return domain.PriceList{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.PriceList{}, err
	}
	var pl domain.PriceList
	if err := json.Unmarshal(doc, &pl); err != nil {
		return domain.PriceList{}, fmt.Errorf("decode price list %s: %w", id, err)
	}
	return pl, nil
}

func (r *Repo) ListPriceLists(ctx context.Context, propertyID string) ([]domain.PriceList, error) {
	rows, err := r.db.QueryContext(ctx, listPriceListsSQL, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PriceList
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var pl domain.PriceList
		if err := json.Unmarshal(doc, &pl); err != nil {
			return nil, fmt.Errorf("decode price list: %w", err)
		}
		out = append(out, pl)
	}
	return out, rows.Err()
}

func (r *Repo) AppendImportAudit(ctx context.Context, a domain.ImportAudit) error {
	_, err := r.db.ExecContext(ctx, insertImportAuditSQL,
		a.SessionID,
		a.PriceListID,
		a.FileName,
		a.Action,
		a.Reason,
		a.Actor,
	)
	return err
}
