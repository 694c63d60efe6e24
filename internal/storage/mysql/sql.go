package mysql

// Reviews are append-only: rows are created once via insert-if-new on the
// fingerprint and never updated in place. INSERT IGNORE + the unique key on
// hash_id makes "duplicate" observable as RowsAffected == 0 instead of an
// error.
const insertReviewSQL = `
INSERT IGNORE INTO reviews
  (source, product_url, rating, body, review_date, hash_id)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const fetchBodiesSQL = `
SELECT body
FROM reviews
WHERE body IS NOT NULL AND body <> ''
ORDER BY id DESC
LIMIT ?
`

const fetchBodiesBySourceSQL = `
SELECT body
FROM reviews
WHERE body IS NOT NULL AND body <> '' AND source = ?
ORDER BY id DESC
LIMIT ?
`

const listReviewsSQL = `
SELECT id, source, product_url, rating, body, review_date, hash_id, created_at
FROM reviews
ORDER BY id DESC
LIMIT ?
`

const listReviewsBySourceSQL = `
SELECT id, source, product_url, rating, body, review_date, hash_id, created_at
FROM reviews
WHERE source = ?
ORDER BY id DESC
LIMIT ?
`

const createReviewsSQL = `
CREATE TABLE IF NOT EXISTS reviews (
  id          BIGINT NOT NULL AUTO_INCREMENT,
  source      VARCHAR(50) NOT NULL,
  product_url TEXT NULL,
  rating      DOUBLE NULL,
  body        TEXT NULL,
  review_date VARCHAR(32) NOT NULL DEFAULT '',
  hash_id     CHAR(64) NOT NULL,
  created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  UNIQUE KEY uq_reviews_hash (hash_id),
  KEY idx_reviews_source_id (source, id),
  KEY idx_reviews_created_at (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`
