package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (id, name, city, country, lat, lon, description, amenities, brand, rating, price_amount, price_currency, tags)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name           = VALUES(name),
  city           = VALUES(city),
  country        = VALUES(country),
  lat            = VALUES(lat),
  lon            = VALUES(lon),
  description    = VALUES(description),
  amenities      = VALUES(amenities),
  brand          = VALUES(brand),
  rating         = VALUES(rating),
  price_amount   = VALUES(price_amount),
  price_currency = VALUES(price_currency),
  tags           = COALESCE(hotels.tags, VALUES(tags)),
  updated_at     = CURRENT_TIMESTAMP
`

// Curation columns only; hotel metadata belongs to the import path.
const lockHotelSQL = `SELECT id FROM hotels WHERE id = ? FOR UPDATE`

const updateCurationSQL = `
UPDATE hotels SET
  hero_photo = ?,
  tags       = ?,
  category   = ?,
  score      = ?,
  curated_at = ?
WHERE id = ?
`

const deletePhotosSQL = `DELETE FROM hotel_photos WHERE hotel_id = ?`

const insertPhotosPrefix = "INSERT INTO hotel_photos\n  (hotel_id, position, ref, url, width, height, source, description)\nVALUES "

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const selectHotelCols = `
SELECT
  h.id, h.name, h.city, h.country, h.lat, h.lon, h.description, h.amenities,
  h.brand, h.rating, h.price_amount, h.price_currency,
  h.hero_photo, h.tags, h.category, h.score, h.curated_at
FROM hotels h
`

const getHotelSQL = selectHotelCols + `WHERE h.id = ?`

const selectPhotosPrefix = `
SELECT hotel_id, ref, url, width, height, source, description
FROM hotel_photos
WHERE hotel_id IN (`

const selectPhotosSuffix = `)
ORDER BY hotel_id, position`
