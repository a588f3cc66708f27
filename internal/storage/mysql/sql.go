package mysql

import _ "embed"

//go:embed schema.sql
var schemaSQL string

const upsertCampSQL = `
INSERT INTO camps
  (id, name, description, location, price, image, amenities, rating)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name        = VALUES(name),
  description = VALUES(description),
  location    = VALUES(location),
  price       = VALUES(price),
  image       = VALUES(image),
  amenities   = VALUES(amenities),
  rating      = VALUES(rating)
`

const upsertRoomSQL = `
INSERT INTO rooms
  (id, camp_id, name, type, capacity, price, amenities, available, image)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  camp_id   = VALUES(camp_id),
  name      = VALUES(name),
  type      = VALUES(type),
  capacity  = VALUES(capacity),
  price     = VALUES(price),
  amenities = VALUES(amenities),
  available = VALUES(available),
  image     = VALUES(image)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const campColumns = `id, name, description, location, price, image, amenities, rating`

const listCampsSQL = `SELECT ` + campColumns + ` FROM camps ORDER BY position`

const getCampSQL = `SELECT ` + campColumns + ` FROM camps WHERE id = ?`

const roomColumns = `id, camp_id, name, type, capacity, price, amenities, available, image`

const listRoomsSQL = `SELECT ` + roomColumns + ` FROM rooms WHERE camp_id = ? ORDER BY id`

const getRoomSQL = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
