package mysql

// Upserts set id = LAST_INSERT_ID(id) on conflict so LastInsertId() returns
// the existing row's id as well as a new one.

const upsertStateSQL = `
INSERT INTO states (name)
VALUES (?)
ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)
`

const upsertCitySQL = `
INSERT INTO cities (name, state_id)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)
`

const upsertHotelSQL = `
INSERT INTO hotels
  (name, description, city_id, state_id, price, rating, images, amenities, availability)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  id           = LAST_INSERT_ID(id),
  description  = VALUES(description),
  state_id     = VALUES(state_id),
  price        = VALUES(price),
  rating       = VALUES(rating),
  images       = VALUES(images),
  amenities    = VALUES(amenities),
  availability = VALUES(availability)
`

const upsertPackageSQL = `
INSERT INTO packages
  (title, description, price, duration, inclusions, image_url)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  id          = LAST_INSERT_ID(id),
  description = VALUES(description),
  price       = VALUES(price),
  duration    = VALUES(duration),
  inclusions  = VALUES(inclusions),
  image_url   = VALUES(image_url)
`

const upsertOfferSQL = `
INSERT INTO offers
  (code, description, discount_percentage, valid_from, valid_until, min_booking_amount)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  id                  = LAST_INSERT_ID(id),
  description         = VALUES(description),
  discount_percentage = VALUES(discount_percentage),
  valid_from          = VALUES(valid_from),
  valid_until         = VALUES(valid_until),
  min_booking_amount  = VALUES(min_booking_amount)
`

const insertBookingSQL = `
INSERT INTO bookings
  (user_id, hotel_id, check_in_date, check_out_date, total_price, status,
   payment_method, guest_name, guest_email, guest_phone, special_requests, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertUserSQL = `
INSERT INTO users (name, email, password_hash, created_at)
VALUES (?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Hotel joined with its state and city names. LEFT JOINs keep a hotel visible
// even if its parents are missing.
const selectHotelSQL = `
SELECT
  h.id,
  h.name,
  h.description,
  h.city_id,
  h.state_id,
  h.price,
  h.rating,
  h.images,
  h.amenities,
  h.availability,
  s.name,
  c.name
FROM hotels h
LEFT JOIN states s ON s.id = h.state_id
LEFT JOIN cities c ON c.id = h.city_id
`

const selectBookingSQL = `
SELECT
  id, user_id, hotel_id, check_in_date, check_out_date, total_price, status,
  payment_method, guest_name, guest_email, guest_phone, special_requests, created_at
FROM bookings
`

const selectOfferSQL = `
SELECT id, code, description, discount_percentage, valid_from, valid_until, min_booking_amount
FROM offers
`

const selectUserSQL = `
SELECT id, name, email, password_hash, created_at
FROM users
`
