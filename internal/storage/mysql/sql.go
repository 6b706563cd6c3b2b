package mysql

const hotelColumns = `
  id, name_en, name_ar, address_en, address_ar, description_en, description_ar,
  type_id, chain_id, area_id, stars, ` + "`rank`" + `, status, thumbnail_url,
  image_url, images, created_at, updated_at`

const insertHotelSQL = `
INSERT INTO hotels
  (name_en, name_ar, address_en, address_ar, description_en, description_ar,
   type_id, chain_id, area_id, stars, ` + "`rank`" + `, status, thumbnail_url, image_url, images)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Full scalar replace; images/image_url are owned by the image synchronizer
// and deliberately excluded here.
const updateHotelSQL = `
UPDATE hotels SET
  name_en        = ?,
  name_ar        = ?,
  address_en     = ?,
  address_ar     = ?,
  description_en = ?,
  description_ar = ?,
  type_id        = ?,
  chain_id       = ?,
  area_id        = ?,
  stars          = ?,
  ` + "`rank`" + `         = ?,
  status         = ?,
  thumbnail_url  = ?,
  updated_at     = CURRENT_TIMESTAMP
WHERE id = ?
`

const getHotelSQL = `SELECT` + hotelColumns + ` FROM hotels WHERE id = ?`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

// Dependent rows ride on the schema's ON DELETE CASCADE; nothing else to do here.

const insertRoomSQL = `
INSERT INTO rooms (hotel_id, room_type, bedding, view, images)
VALUES (?, ?, ?, ?, ?)
`

const deleteRoomsSQL = `DELETE FROM rooms WHERE hotel_id = ?`

const roomColumns = ` id, hotel_id, room_type, bedding, view, images `

const insertPackagesPrefix = `
INSERT INTO room_packages
  (room_id, meal_board, cancellation_policy, first_price, base_price, almosafer_points, shukran_points)
VALUES `

const packageColumns = ` id, room_id, meal_board, cancellation_policy, first_price, base_price, almosafer_points, shukran_points `

const insertAmenitiesPrefix = `INSERT INTO hotel_amenities (hotel_id, amenity_id) VALUES `

const deleteAmenitiesSQL = `DELETE FROM hotel_amenities WHERE hotel_id = ?`

const insertAggregatesPrefix = `
INSERT INTO review_aggregates
  (hotel_id, source, average_rating, total_reviews, last_updated)
VALUES `

// Upsert keyed on the UNIQUE (hotel_id, source) index.
const upsertAggregatesOnDup = ` ON DUPLICATE KEY UPDATE
  average_rating = VALUES(average_rating),
  total_reviews  = VALUES(total_reviews),
  last_updated   = VALUES(last_updated)
`

const listAggregatesSQL = `
SELECT id, hotel_id, source, average_rating, total_reviews, last_updated
FROM review_aggregates
WHERE hotel_id = ?
ORDER BY id ASC
`

const saveImagesSQL = `
UPDATE hotels SET images = ?, image_url = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const listFAQsSQL = `
SELECT id, hotel_id, question_en, question_ar, answer_en, answer_ar
FROM hotel_faqs
WHERE hotel_id = ?
ORDER BY id ASC
`
