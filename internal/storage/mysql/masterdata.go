package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"hotel_admin/internal/domain"
)

// The four reference tables are structurally identical apart from the icon
// column, which only amenities carries.

func hasIcon(table domain.MasterTable) bool { return table == domain.TableAmenities }

func validTable(table domain.MasterTable) error {
	switch table {
	case domain.TablePropertyTypes, domain.TableChains, domain.TableAreas, domain.TableAmenities:
		return nil
	}
	return fmt.Errorf("unknown master-data table %q", table)
}

func scanMaster(s rowScanner, withIcon bool) (domain.MasterEntity, error) {
	var e domain.MasterEntity
	var icon sql.NullString
	var err error
	if withIcon {
		err = s.Scan(&e.ID, &e.NameEN, &e.NameAR, &icon, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	} else {
		err = s.Scan(&e.ID, &e.NameEN, &e.NameAR, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	}
	if err != nil {
		return domain.MasterEntity{}, err
	}
	if icon.Valid {
		e.Icon = ptrOf(icon.String)
	}
	return e, nil
}

// MasterRepo serves the four reference tables over the same handle as Repo.
type MasterRepo struct{ db *sql.DB }

func NewMaster(db *sql.DB) *MasterRepo { return &MasterRepo{db: db} }

func masterColumns(table domain.MasterTable) string {
	if hasIcon(table) {
		return `id, name_en, name_ar, icon, status, created_at, updated_at`
	}
	return `id, name_en, name_ar, status, created_at, updated_at`
}

func (r *MasterRepo) List(ctx context.Context, table domain.MasterTable, activeOnly bool) ([]domain.MasterEntity, error) {
	if err := validTable(table); err != nil {
		return nil, err
	}
	query := `SELECT ` + masterColumns(table) + ` FROM ` + string(table)
	var args []any
	if activeOnly {
		query += ` WHERE status = ?`
		args = append(args, domain.StatusActive)
	}
	query += ` ORDER BY name_en ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	out := []domain.MasterEntity{}
	for rows.Next() {
		e, err := scanMaster(rows, hasIcon(table))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *MasterRepo) getMasterRow(ctx context.Context, table domain.MasterTable, id int64) (domain.MasterEntity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+masterColumns(table)+` FROM `+string(table)+` WHERE id = ?`, id)
	e, err := scanMaster(row, hasIcon(table))
	if err == sql.ErrNoRows {
		return domain.MasterEntity{}, domain.ErrNotFound
	}
	return e, err
}

func (r *MasterRepo) Create(ctx context.Context, table domain.MasterTable, e domain.MasterEntity) (domain.MasterEntity, error) {
	if err := validTable(table); err != nil {
		return domain.MasterEntity{}, err
	}
	if e.Status == "" {
		e.Status = domain.StatusActive
	}
	var (
		res sql.Result
		err error
	)
	if hasIcon(table) {
		res, err = r.db.ExecContext(ctx,
			`INSERT INTO `+string(table)+` (name_en, name_ar, icon, status) VALUES (?, ?, ?, ?)`,
			e.NameEN, e.NameAR, valStr(e.Icon), e.Status)
	} else {
		res, err = r.db.ExecContext(ctx,
			`INSERT INTO `+string(table)+` (name_en, name_ar, status) VALUES (?, ?, ?)`,
			e.NameEN, e.NameAR, e.Status)
	}
	if err != nil {
		return domain.MasterEntity{}, fmt.Errorf("create %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.MasterEntity{}, err
	}
	return r.getMasterRow(ctx, table, id)
}

func (r *MasterRepo) Update(ctx context.Context, table domain.MasterTable, id int64, e domain.MasterEntity) (domain.MasterEntity, error) {
	if err := validTable(table); err != nil {
		return domain.MasterEntity{}, err
	}
	var err error
	if hasIcon(table) {
		_, err = r.db.ExecContext(ctx,
			`UPDATE `+string(table)+` SET name_en = ?, name_ar = ?, icon = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			e.NameEN, e.NameAR, valStr(e.Icon), e.Status, id)
	} else {
		_, err = r.db.ExecContext(ctx,
			`UPDATE `+string(table)+` SET name_en = ?, name_ar = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			e.NameEN, e.NameAR, e.Status, id)
	}
	if err != nil {
		return domain.MasterEntity{}, fmt.Errorf("update %s %d: %w", table, id, err)
	}
	return r.getMasterRow(ctx, table, id)
}

// Delete removes the row. Hotels referencing it are not guarded
// against here; a foreign-key violation surfaces as a generic error.
func (r *MasterRepo) Delete(ctx context.Context, table domain.MasterTable, id int64) error {
	if err := validTable(table); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+string(table)+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", table, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
