package cleanup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/op/go-logging"

	"github.com/qrpstudio/media-services/records"
)

// Exclusion names one row the tracker should ignore while scanning.
// An in-flight update passes the row being updated, since the database
// still shows the old value until the transaction completes.
type Exclusion struct {
	Entity string
	ID     int64
}

// Tracker answers the one question that gates every file delete: does
// any live record still reference this storage key? It scans the
// static registry of reference sites. Any doubt, including a query
// failure, counts as "referenced" -- never delete under uncertainty.
type Tracker struct {
	db     *records.DB
	sites  []ReferenceSite
	logger *logging.Logger
}

func NewTracker(db *records.DB, sites []ReferenceSite, logger *logging.Logger) *Tracker {
	return &Tracker{
		db:     db,
		sites:  sites,
		logger: logger,
	}
}

// IsReferenced returns true if any reference site still names key.
// Pass a non-nil exclude to ignore the row an in-flight update is
// about to change. True means keep the file.
func (t *Tracker) IsReferenced(ctx context.Context, key string, exclude *Exclusion) bool {
	if key == "" {
		return true
	}
	for _, site := range t.sites {
		found, err := t.scanSite(ctx, site, key, exclude)
		if err != nil {
			t.logger.Warningf("Reference scan of %s.%s failed for key %s, keeping file: %v",
				site.Table, site.Column, key, err)
			return true
		}
		if found {
			return true
		}
	}
	return false
}

func (t *Tracker) scanSite(ctx context.Context, site ReferenceSite, key string, exclude *Exclusion) (bool, error) {
	var query string
	var args []interface{}
	if site.MatchSuffix {
		query = fmt.Sprintf(`SELECT 1 FROM %s WHERE %s LIKE ? ESCAPE '\'`, site.Table, site.Column)
		args = append(args, "%"+escapeLike(key))
	} else {
		query = fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = ?`, site.Table, site.Column)
		args = append(args, key)
	}
	if exclude != nil && exclude.Entity == site.Entity {
		query += " AND id != ?"
		args = append(args, exclude.ID)
	}
	query += " LIMIT 1"

	var one int
	err := t.db.SQL().QueryRowContext(ctx, query, args...).Scan(&one)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, err
}

// escapeLike escapes LIKE wildcards in a storage key so the suffix
// match stays literal.
func escapeLike(key string) string {
	key = strings.ReplaceAll(key, `\`, `\\`)
	key = strings.ReplaceAll(key, `%`, `\%`)
	key = strings.ReplaceAll(key, `_`, `\_`)
	return key
}
