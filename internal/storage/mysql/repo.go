package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"

	"hotel_booking/internal/domain"
)

const errDuplicateEntry = 1062

func valJSON(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// escapeLike makes a user string safe inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func isDuplicate(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}

type Repo struct{ db *sql.DB }

var _ domain.Store = (*Repo)(nil)

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func lastID(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ---- catalog writes ----

func (r *Repo) UpsertState(ctx context.Context, s domain.State) (domain.State, error) {
	id, err := lastID(r.db.ExecContext(ctx, upsertStateSQL, s.Name))
	if err != nil {
		return domain.State{}, fmt.Errorf("upsert state %q: %w", s.Name, err)
	}
	s.ID = id
	return s, nil
}

func (r *Repo) UpsertCity(ctx context.Context, c domain.City) (domain.City, error) {
	id, err := lastID(r.db.ExecContext(ctx, upsertCitySQL, c.Name, c.StateID))
	if err != nil {
		return domain.City{}, fmt.Errorf("upsert city %q: %w", c.Name, err)
	}
	c.ID = id
	return c, nil
}

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	id, err := lastID(r.db.ExecContext(ctx, upsertHotelSQL,
		h.Name,
		h.Description,
		h.CityID,
		h.StateID,
		h.Price,
		h.Rating,
		valJSON(h.Images),
		valJSON(h.Amenities),
		h.Availability,
	))
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("upsert hotel %q: %w", h.Name, err)
	}
	h.ID = id
	return h, nil
}

// ---- catalog reads ----

func (r *Repo) ListStates(ctx context.Context) ([]domain.State, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM states ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.State{}
	for rows.Next() {
		var s domain.State
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) GetState(ctx context.Context, id int64) (domain.State, error) {
	var s domain.State
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM states WHERE id = ?`, id).Scan(&s.ID, &s.Name)
	if err == sql.ErrNoRows {
		return domain.State{}, domain.ErrNotFound
	}
	return s, err
}

func (r *Repo) ListCities(ctx context.Context, stateID *int64) ([]domain.City, error) {
	q := `SELECT id, name, state_id FROM cities`
	var args []any
	if stateID != nil {
		q += ` WHERE state_id = ?`
		args = append(args, *stateID)
	}
	rows, err := r.db.QueryContext(ctx, q+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.City{}
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.Name, &c.StateID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanHotel(sc scanner) (domain.HotelWithLocation, error) {
	var hl domain.HotelWithLocation
	var imagesJSON, amenitiesJSON []byte
	var stateName, cityName sql.NullString
	if err := sc.Scan(
		&hl.ID,
		&hl.Name,
		&hl.Description,
		&hl.CityID,
		&hl.StateID,
		&hl.Price,
		&hl.Rating,
		&imagesJSON,
		&amenitiesJSON,
		&hl.Availability,
		&stateName,
		&cityName,
	); err != nil {
		return domain.HotelWithLocation{}, err
	}
	_ = json.Unmarshal(imagesJSON, &hl.Images)
	_ = json.Unmarshal(amenitiesJSON, &hl.Amenities)
	hl.StateName = stateName.String
	hl.CityName = cityName.String
	return hl, nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.HotelWithLocation, error) {
	hl, err := scanHotel(r.db.QueryRowContext(ctx, selectHotelSQL+` WHERE h.id = ?`, id))
	if err == sql.ErrNoRows {
		return domain.HotelWithLocation{}, domain.ErrNotFound
	}
	return hl, err
}

func (r *Repo) GetHotelsWithLocation(ctx context.Context, f domain.HotelFilter) ([]domain.HotelWithLocation, error) {
	q := selectHotelSQL
	var args []any
	switch {
	case f.StateID != nil:
		q += ` WHERE h.state_id = ?`
		args = append(args, *f.StateID)
	case f.CityID != nil:
		q += ` WHERE h.city_id = ?`
		args = append(args, *f.CityID)
	case strings.TrimSpace(f.Query) != "":
		pat := "%" + escapeLike(strings.ToLower(strings.TrimSpace(f.Query))) + "%"
		q += ` WHERE LOWER(h.name) LIKE ? OR LOWER(c.name) LIKE ? OR LOWER(s.name) LIKE ?`
		args = append(args, pat, pat, pat)
	}
	rows, err := r.db.QueryContext(ctx, q+` ORDER BY h.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.HotelWithLocation{}
	for rows.Next() {
		hl, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, hl)
	}
	return out, rows.Err()
}

// ---- bookings ----

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	id, err := lastID(r.db.ExecContext(ctx, insertBookingSQL,
		b.UserID,
		b.HotelID,
		b.CheckInDate.UTC(),
		b.CheckOutDate.UTC(),
		b.TotalPrice,
		string(b.Status),
		b.PaymentMethod,
		b.GuestDetails.Name,
		b.GuestDetails.Email,
		b.GuestDetails.Phone,
		b.GuestDetails.SpecialRequests,
		b.CreatedAt.UTC(),
	))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	b.ID = id
	return b, nil
}

func scanBooking(sc scanner) (domain.Booking, error) {
	var b domain.Booking
	var status string
	err := sc.Scan(
		&b.ID,
		&b.UserID,
		&b.HotelID,
		&b.CheckInDate,
		&b.CheckOutDate,
		&b.TotalPrice,
		&status,
		&b.PaymentMethod,
		&b.GuestDetails.Name,
		&b.GuestDetails.Email,
		&b.GuestDetails.Phone,
		&b.GuestDetails.SpecialRequests,
		&b.CreatedAt,
	)
	b.Status = domain.BookingStatus(status)
	return b, err
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, selectBookingSQL+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) ListBookingsByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, selectBookingSQL+` WHERE user_id = ? ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateBookingStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (domain.Booking, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`, string(to), id, string(from))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("update booking %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Booking{}, fmt.Errorf("update booking %d: %w", id, err)
	}
	b, err := r.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if n == 0 {
		return b, domain.ErrAlreadyCancelled
	}
	return b, nil
}

// ---- packages & offers ----

func (r *Repo) UpsertPackage(ctx context.Context, p domain.Package) (domain.Package, error) {
	id, err := lastID(r.db.ExecContext(ctx, upsertPackageSQL,
		p.Title, p.Description, p.Price, p.Duration, valJSON(p.Inclusions), p.ImageURL,
	))
	if err != nil {
		return domain.Package{}, fmt.Errorf("upsert package %q: %w", p.Title, err)
	}
	p.ID = id
	return p, nil
}

func (r *Repo) UpsertOffer(ctx context.Context, o domain.Offer) (domain.Offer, error) {
	id, err := lastID(r.db.ExecContext(ctx, upsertOfferSQL,
		o.Code, o.Description, o.DiscountPercentage, o.ValidFrom.UTC(), o.ValidUntil.UTC(), o.MinBookingAmount,
	))
	if err != nil {
		return domain.Offer{}, fmt.Errorf("upsert offer %q: %w", o.Code, err)
	}
	o.ID = id
	return o, nil
}

func (r *Repo) ListPackages(ctx context.Context) ([]domain.Package, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, price, duration, inclusions, image_url FROM packages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Package{}
	for rows.Next() {
		var p domain.Package
		var inclusions []byte
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Duration, &inclusions, &p.ImageURL); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(inclusions, &p.Inclusions)
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanOffer(sc scanner) (domain.Offer, error) {
	var o domain.Offer
	err := sc.Scan(&o.ID, &o.Code, &o.Description, &o.DiscountPercentage, &o.ValidFrom, &o.ValidUntil, &o.MinBookingAmount)
	return o, err
}

func (r *Repo) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	rows, err := r.db.QueryContext(ctx, selectOfferSQL+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetOfferByCode relies on the column's case-insensitive collation.
func (r *Repo) GetOfferByCode(ctx context.Context, code string) (domain.Offer, error) {
	o, err := scanOffer(r.db.QueryRowContext(ctx, selectOfferSQL+` WHERE code = ?`, code))
	if err == sql.ErrNoRows {
		return domain.Offer{}, domain.ErrNotFound
	}
	return o, err
}

// ---- users ----

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	id, err := lastID(r.db.ExecContext(ctx, insertUserSQL, u.Name, u.Email, u.PasswordHash, u.CreatedAt.UTC()))
	if isDuplicate(err) {
		return domain.User{}, domain.ErrEmailTaken
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return u, nil
}

func scanUser(sc scanner) (domain.User, error) {
	var u domain.User
	err := sc.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserSQL+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return domain.User{}, domain.ErrNotFound
	}
	return u, err
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserSQL+` WHERE email = ?`, email))
	if err == sql.ErrNoRows {
		return domain.User{}, domain.ErrNotFound
	}
	return u, err
}
