package database

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// PlantRanking is one row of a popularity ranking query.
type PlantRanking struct {
	ID                  string
	ScientificName      string
	CommonName          string
	PrimaryImageURL     sql.NullString
	ViewCount           int
	IdentificationCount int
}

// GetPopularPlantRankings returns plant ids ordered by identification count,
// view count breaking ties. Used by the popular-plants listing.
func GetPopularPlantRankings(db *sql.DB, limit int) ([]PlantRanking, error) {
	queryBuilder := psql.Select("id", "scientific_name", "common_name", "primary_image_url", "view_count", "identification_count").
		From("plants").
		OrderBy("identification_count DESC", "view_count DESC").
		Limit(uint64(limit))

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for GetPopularPlantRankings: %w", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular plants: %w", err)
	}
	defer rows.Close()

	var rankings []PlantRanking
	for rows.Next() {
		var r PlantRanking
		if err := rows.Scan(&r.ID, &r.ScientificName, &r.CommonName, &r.PrimaryImageURL, &r.ViewCount, &r.IdentificationCount); err != nil {
			return nil, fmt.Errorf("failed to scan popular plant row: %w", err)
		}
		rankings = append(rankings, r)
	}
	return rankings, rows.Err()
}

// CountIdentificationsSince counts identification rows for a user created at or
// after the given time. Backs the user stats endpoint.
func CountIdentificationsSince(db *sql.DB, userID string, since time.Time) (int64, error) {
	queryBuilder := psql.Select("COUNT(*)").
		From("plant_identifications").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"created_at": since})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL query for CountIdentificationsSince: %w", err)
	}

	var count int64
	if err := db.QueryRow(sqlStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count identifications: %w", err)
	}
	return count, nil
}
