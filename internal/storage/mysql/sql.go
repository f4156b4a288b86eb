package mysql

// The aggregate is stored as one JSON document per price list, with the
// query-relevant fields denormalized into columns. Single-writer,
// last-write-wins at this boundary.

const upsertPriceListSQL = `
INSERT INTO price_lists
  (id, property_id, name, valid_from, valid_to, validation_status, import_source, doc)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  property_id       = VALUES(property_id),
  name              = VALUES(name),
  valid_from        = VALUES(valid_from),
  valid_to          = VALUES(valid_to),
  validation_status = VALUES(validation_status),
  import_source     = VALUES(import_source),
  doc               = VALUES(doc),
  updated_at        = CURRENT_TIMESTAMP
`

const getPriceListSQL = `
SELECT doc FROM price_lists WHERE id = ?
`

const listPriceListsSQL = `
SELECT doc FROM price_lists
WHERE property_id = ?
ORDER BY valid_from, id
`

const insertImportAuditSQL = `
INSERT INTO import_audit
  (session_id, price_list_id, file_name, action, reason, actor)
VALUES (?, ?, ?, ?, ?, ?)
`
