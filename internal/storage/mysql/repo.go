package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_admin/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func ptrOf[T any](v T) *T { return &v }

// placeholders renders "?,?,..,?" for IN clauses and batch inserts.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

type rowScanner interface{ Scan(dest ...any) error }

func scanHotel(s rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var addrEN, addrAR, descEN, descAR, thumb, imgURL, status sql.NullString
	var chainID sql.NullInt64
	var stars sql.NullInt64
	var imagesJSON []byte

	if err := s.Scan(
		&h.ID, &h.NameEN, &h.NameAR,
		&addrEN, &addrAR, &descEN, &descAR,
		&h.TypeID, &chainID, &h.AreaID,
		&stars, &h.Rank, &status,
		&thumb, &imgURL, &imagesJSON,
		&h.CreatedAt, &h.UpdatedAt,
	); err != nil {
		return domain.Hotel{}, err
	}

	if addrEN.Valid {
		h.AddressEN = ptrOf(addrEN.String)
	}
	if addrAR.Valid {
		h.AddressAR = ptrOf(addrAR.String)
	}
	if descEN.Valid {
		h.DescriptionEN = ptrOf(descEN.String)
	}
	if descAR.Valid {
		h.DescriptionAR = ptrOf(descAR.String)
	}
	if chainID.Valid {
		h.ChainID = ptrOf(chainID.Int64)
	}
	if stars.Valid {
		h.Stars = ptrOf(int(stars.Int64))
	}
	if status.Valid {
		h.Status = status.String
	}
	if thumb.Valid {
		h.ThumbnailURL = ptrOf(thumb.String)
	}
	if imgURL.Valid {
		h.ImageURL = ptrOf(imgURL.String)
	}
	if len(imagesJSON) > 0 {
		_ = json.Unmarshal(imagesJSON, &h.Images)
	}
	return h, nil
}

func (r *Repo) getHotelRow(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if err == sql.ErrNoRows {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, err
}

func (r *Repo) Create(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	imgs, _ := json.Marshal(h.Images)
	if h.Status == "" {
		h.Status = domain.StatusActive
	}
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.NameEN, h.NameAR,
		valStr(h.AddressEN), valStr(h.AddressAR),
		valStr(h.DescriptionEN), valStr(h.DescriptionAR),
		h.TypeID, valInt64(h.ChainID), h.AreaID,
		valInt(h.Stars), h.Rank, h.Status,
		valStr(h.ThumbnailURL), valStr(h.ImageURL), string(imgs),
	)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("insert hotel: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Hotel{}, err
	}
	return r.getHotelRow(ctx, id)
}

func (r *Repo) Update(ctx context.Context, id int64, h domain.Hotel) (domain.Hotel, error) {
	_, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.NameEN, h.NameAR,
		valStr(h.AddressEN), valStr(h.AddressAR),
		valStr(h.DescriptionEN), valStr(h.DescriptionAR),
		h.TypeID, valInt64(h.ChainID), h.AreaID,
		valInt(h.Stars), h.Rank, h.Status,
		valStr(h.ThumbnailURL),
		id,
	)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("update hotel %d: %w", id, err)
	}
	// RowsAffected is 0 for a no-op update on MySQL, so existence is checked
	// by reading the row back.
	return r.getHotelRow(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteHotelSQL, id)
	if err != nil {
		return fmt.Errorf("delete hotel %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// lookupRef fetches a master-data display row, or nil when absent.
func (r *Repo) lookupRef(ctx context.Context, table domain.MasterTable, id int64) (*domain.NamedRef, error) {
	var ref domain.NamedRef
	var nameAR sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name_en, name_ar FROM `+string(table)+` WHERE id = ?`, id,
	).Scan(&ref.ID, &ref.NameEN, &nameAR)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if nameAR.Valid {
		ref.NameAR = ptrOf(nameAR.String)
	}
	return &ref, nil
}

// attachRefs resolves type/chain/area in parallel, merging whichever lookups
// succeed. A failed or absent optional relation yields nil, never an error.
func (r *Repo) attachRefs(ctx context.Context, h domain.Hotel) (typ, chain, area *domain.NamedRef) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if ref, err := r.lookupRef(gctx, domain.TablePropertyTypes, h.TypeID); err == nil {
			typ = ref
		}
		return nil
	})
	g.Go(func() error {
		if h.ChainID == nil {
			return nil
		}
		if ref, err := r.lookupRef(gctx, domain.TableChains, *h.ChainID); err == nil {
			chain = ref
		}
		return nil
	})
	g.Go(func() error {
		if ref, err := r.lookupRef(gctx, domain.TableAreas, h.AreaID); err == nil {
			area = ref
		}
		return nil
	})
	_ = g.Wait()
	return typ, chain, area
}

func (r *Repo) GetByID(ctx context.Context, id int64) (domain.HotelSummary, error) {
	h, err := r.getHotelRow(ctx, id)
	if err != nil {
		return domain.HotelSummary{}, err
	}
	typ, chain, area := r.attachRefs(ctx, h)
	return domain.HotelSummary{Hotel: h, Type: typ, Chain: chain, Area: area}, nil
}

func scanRoom(s rowScanner) (domain.Room, error) {
	var rm domain.Room
	var imagesJSON []byte
	if err := s.Scan(&rm.ID, &rm.HotelID, &rm.RoomType, &rm.Bedding, &rm.View, &imagesJSON); err != nil {
		return domain.Room{}, err
	}
	if len(imagesJSON) > 0 {
		_ = json.Unmarshal(imagesJSON, &rm.Images)
	}
	if rm.Images == nil {
		rm.Images = []string{}
	}
	return rm, nil
}

func (r *Repo) roomsForHotels(ctx context.Context, hotelIDs []int64) ([]domain.Room, error) {
	if len(hotelIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT`+roomColumns+`FROM rooms WHERE hotel_id IN (`+placeholders(len(hotelIDs))+`) ORDER BY id ASC`,
		int64Args(hotelIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// packagesByRoom issues the dependent second round trip keyed by room ids and
// groups the result by room_id.
func (r *Repo) packagesByRoom(ctx context.Context, roomIDs []int64) (map[int64][]domain.RoomPackage, error) {
	if len(roomIDs) == 0 {
		return map[int64][]domain.RoomPackage{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT`+packageColumns+`FROM room_packages WHERE room_id IN (`+placeholders(len(roomIDs))+`) ORDER BY id ASC`,
		int64Args(roomIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grouped := map[int64][]domain.RoomPackage{}
	for rows.Next() {
		var p domain.RoomPackage
		if err := rows.Scan(&p.ID, &p.RoomID, &p.MealBoard, &p.CancellationPolicy,
			&p.FirstPrice, &p.BasePrice, &p.AlmosaferPoints, &p.ShukranPoints); err != nil {
			return nil, err
		}
		grouped[p.RoomID] = append(grouped[p.RoomID], p)
	}
	return grouped, rows.Err()
}

func (r *Repo) amenityIDs(ctx context.Context, hotelID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT amenity_id FROM hotel_amenities WHERE hotel_id = ? ORDER BY amenity_id ASC`, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *Repo) listAggregates(ctx context.Context, hotelID int64) ([]domain.ReviewAggregate, error) {
	rows, err := r.db.QueryContext(ctx, listAggregatesSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ReviewAggregate
	for rows.Next() {
		var a domain.ReviewAggregate
		if err := rows.Scan(&a.ID, &a.HotelID, &a.Source, &a.AverageRating, &a.TotalReviews, &a.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetComplete assembles the full aggregate view. The hotel row is fatal;
// amenity ids, rooms, packages and review aggregates degrade to empty
// collections with a logged warning.
func (r *Repo) GetComplete(ctx context.Context, id int64) (domain.HotelDetail, error) {
	var (
		hotel      domain.Hotel
		amenities  []int64
		rooms      []domain.Room
		aggregates []domain.ReviewAggregate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := r.getHotelRow(gctx, id)
		if err != nil {
			return err
		}
		hotel = h
		return nil
	})
	g.Go(func() error {
		ids, err := r.amenityIDs(gctx, id)
		if err != nil {
			log.Warn().Int64("hotel_id", id).Err(err).Msg("amenities query failed, returning empty list")
			return nil
		}
		amenities = ids
		return nil
	})
	g.Go(func() error {
		rs, err := r.roomsForHotels(gctx, []int64{id})
		if err != nil {
			log.Warn().Int64("hotel_id", id).Err(err).Msg("rooms query failed, returning empty rooms")
			return nil
		}
		rooms = rs
		return nil
	})
	g.Go(func() error {
		as, err := r.listAggregates(gctx, id)
		if err != nil {
			log.Warn().Int64("hotel_id", id).Err(err).Msg("review aggregates query failed, returning empty list")
			return nil
		}
		aggregates = as
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.HotelDetail{}, err
	}

	roomIDs := make([]int64, 0, len(rooms))
	for _, rm := range rooms {
		roomIDs = append(roomIDs, rm.ID)
	}
	pkgs, err := r.packagesByRoom(ctx, roomIDs)
	if err != nil {
		log.Warn().Int64("hotel_id", id).Err(err).Msg("room packages query failed")
		pkgs = map[int64][]domain.RoomPackage{}
	}
	for i := range rooms {
		rooms[i].Packages = pkgs[rooms[i].ID]
		if rooms[i].Packages == nil {
			rooms[i].Packages = []domain.RoomPackage{}
		}
	}

	typ, chain, area := r.attachRefs(ctx, hotel)
	return domain.HotelDetail{
		Hotel:            hotel,
		Type:             typ,
		Chain:            chain,
		Area:             area,
		AmenityIDs:       emptyIfNil(amenities),
		Rooms:            emptyRoomsIfNil(rooms),
		ReviewAggregates: emptyAggsIfNil(aggregates),
	}, nil
}

func emptyIfNil(v []int64) []int64 {
	if v == nil {
		return []int64{}
	}
	return v
}
func emptyRoomsIfNil(v []domain.Room) []domain.Room {
	if v == nil {
		return []domain.Room{}
	}
	return v
}
func emptyAggsIfNil(v []domain.ReviewAggregate) []domain.ReviewAggregate {
	if v == nil {
		return []domain.ReviewAggregate{}
	}
	return v
}

// refsByID issues one batched lookup per table for the distinct ids seen in a
// result set, instead of N+1 per hotel.
func (r *Repo) refsByID(ctx context.Context, table domain.MasterTable, ids []int64) (map[int64]domain.NamedRef, error) {
	out := map[int64]domain.NamedRef{}
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name_en, name_ar FROM `+string(table)+` WHERE id IN (`+placeholders(len(ids))+`)`,
		int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ref domain.NamedRef
		var nameAR sql.NullString
		if err := rows.Scan(&ref.ID, &ref.NameEN, &nameAR); err != nil {
			return nil, err
		}
		if nameAR.Valid {
			ref.NameAR = ptrOf(nameAR.String)
		}
		out[ref.ID] = ref
	}
	return out, rows.Err()
}

func distinct(ids []int64) []int64 {
	seen := map[int64]struct{}{}
	var out []int64
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (r *Repo) List(ctx context.Context, f domain.HotelFilter) ([]domain.HotelSummary, error) {
	query := `SELECT` + hotelColumns + ` FROM hotels`
	var conds []string
	var args []any
	if s := strings.TrimSpace(f.Search); s != "" {
		conds = append(conds, `(LOWER(name_en) LIKE ? OR LOWER(name_ar) LIKE ?)`)
		pat := "%" + strings.ToLower(s) + "%"
		args = append(args, pat, pat)
	}
	if f.TypeID != nil {
		conds = append(conds, `type_id = ?`)
		args = append(args, *f.TypeID)
	}
	if f.AreaID != nil {
		conds = append(conds, `area_id = ?`)
		args = append(args, *f.AreaID)
	}
	if f.Status != nil {
		conds = append(conds, `status = ?`)
		args = append(args, *f.Status)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += " ORDER BY `rank` ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	var hotels []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Batched enrichment of the whole page.
	var typeIDs, chainIDs, areaIDs []int64
	for _, h := range hotels {
		typeIDs = append(typeIDs, h.TypeID)
		areaIDs = append(areaIDs, h.AreaID)
		if h.ChainID != nil {
			chainIDs = append(chainIDs, *h.ChainID)
		}
	}
	types, err := r.refsByID(ctx, domain.TablePropertyTypes, distinct(typeIDs))
	if err != nil {
		return nil, err
	}
	chains, err := r.refsByID(ctx, domain.TableChains, distinct(chainIDs))
	if err != nil {
		return nil, err
	}
	areas, err := r.refsByID(ctx, domain.TableAreas, distinct(areaIDs))
	if err != nil {
		return nil, err
	}

	out := make([]domain.HotelSummary, 0, len(hotels))
	for _, h := range hotels {
		s := domain.HotelSummary{Hotel: h}
		if ref, ok := types[h.TypeID]; ok {
			s.Type = ptrOf(ref)
		}
		if h.ChainID != nil {
			if ref, ok := chains[*h.ChainID]; ok {
				s.Chain = ptrOf(ref)
			}
		}
		if ref, ok := areas[h.AreaID]; ok {
			s.Area = ptrOf(ref)
		}
		out = append(out, s)
	}
	return out, nil
}

// ListComplete is the one-level joined shape served by the read API: each
// hotel with its amenity ids, rooms (with packages) and review aggregates,
// fetched as batched hotel_id IN queries rather than per-hotel round trips.
func (r *Repo) ListComplete(ctx context.Context, f domain.HotelFilter) ([]domain.HotelDetail, error) {
	summaries, err := r.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return []domain.HotelDetail{}, nil
	}

	hotelIDs := make([]int64, 0, len(summaries))
	for _, s := range summaries {
		hotelIDs = append(hotelIDs, s.ID)
	}

	amenByHotel := map[int64][]int64{}
	roomsByHotel := map[int64][]domain.Room{}
	aggsByHotel := map[int64][]domain.ReviewAggregate{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.db.QueryContext(gctx,
			`SELECT hotel_id, amenity_id FROM hotel_amenities WHERE hotel_id IN (`+placeholders(len(hotelIDs))+`) ORDER BY amenity_id ASC`,
			int64Args(hotelIDs)...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var hid, aid int64
			if err := rows.Scan(&hid, &aid); err != nil {
				return err
			}
			amenByHotel[hid] = append(amenByHotel[hid], aid)
		}
		return rows.Err()
	})
	g.Go(func() error {
		rooms, err := r.roomsForHotels(gctx, hotelIDs)
		if err != nil {
			return err
		}
		roomIDs := make([]int64, 0, len(rooms))
		for _, rm := range rooms {
			roomIDs = append(roomIDs, rm.ID)
		}
		pkgs, err := r.packagesByRoom(gctx, roomIDs)
		if err != nil {
			return err
		}
		for _, rm := range rooms {
			rm.Packages = pkgs[rm.ID]
			if rm.Packages == nil {
				rm.Packages = []domain.RoomPackage{}
			}
			roomsByHotel[rm.HotelID] = append(roomsByHotel[rm.HotelID], rm)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := r.db.QueryContext(gctx,
			`SELECT id, hotel_id, source, average_rating, total_reviews, last_updated
			 FROM review_aggregates WHERE hotel_id IN (`+placeholders(len(hotelIDs))+`) ORDER BY id ASC`,
			int64Args(hotelIDs)...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var a domain.ReviewAggregate
			if err := rows.Scan(&a.ID, &a.HotelID, &a.Source, &a.AverageRating, &a.TotalReviews, &a.LastUpdated); err != nil {
				return err
			}
			aggsByHotel[a.HotelID] = append(aggsByHotel[a.HotelID], a)
		}
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list hotels complete: %w", err)
	}

	out := make([]domain.HotelDetail, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, domain.HotelDetail{
			Hotel:            s.Hotel,
			Type:             s.Type,
			Chain:            s.Chain,
			Area:             s.Area,
			AmenityIDs:       emptyIfNil(amenByHotel[s.ID]),
			Rooms:            emptyRoomsIfNil(roomsByHotel[s.ID]),
			ReviewAggregates: emptyAggsIfNil(aggsByHotel[s.ID]),
		})
	}
	return out, nil
}

func (r *Repo) ListFAQs(ctx context.Context, hotelID int64) ([]domain.FAQ, error) {
	rows, err := r.db.QueryContext(ctx, listFAQsSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FAQ
	for rows.Next() {
		var f domain.FAQ
		if err := rows.Scan(&f.ID, &f.HotelID, &f.QuestionEN, &f.QuestionAR, &f.AnswerEN, &f.AnswerAR); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
