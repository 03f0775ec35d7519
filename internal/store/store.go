// Package store keeps resources in PostgreSQL, one row per string, array
// element or plural category.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"loctool/internal/resource"
	"loctool/internal/textutil"
	"loctool/internal/worker"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// ErrInsufficientCriteria is returned by Remove when the criteria would
// select every row.
var ErrInsufficientCriteria = errors.New("insufficient criteria: refusing to remove all resources")

const table = "resources"

const schema = `
CREATE TABLE IF NOT EXISTS resources (
	id            BIGSERIAL PRIMARY KEY,
	identity      TEXT NOT NULL UNIQUE,
	content_hash  TEXT NOT NULL,
	reskey        TEXT NOT NULL,
	kind          TEXT NOT NULL,
	project       TEXT NOT NULL DEFAULT '',
	path          TEXT NOT NULL DEFAULT '',
	source_locale TEXT NOT NULL,
	target_locale TEXT NOT NULL DEFAULT '',
	context       TEXT NOT NULL DEFAULT '',
	datatype      TEXT NOT NULL DEFAULT '',
	flavor        TEXT NOT NULL DEFAULT '',
	state         TEXT NOT NULL DEFAULT '',
	comment       TEXT NOT NULL DEFAULT '',
	ordinal       INTEGER NOT NULL DEFAULT -1,
	category      TEXT NOT NULL DEFAULT '',
	source        TEXT NOT NULL,
	target        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS resources_project_locale_idx ON resources (project, target_locale);
`

var columns = []string{
	"reskey", "kind", "project", "path", "source_locale", "target_locale",
	"context", "datatype", "flavor", "state", "comment", "ordinal", "category",
	"source", "target",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store is a database-backed translation set.
type Store struct {
	pool *pgxpool.Pool
	mu   sync.RWMutex
	// written maps row identity to the content hash last stored.
	written map[string]string
}

// New creates a store on pool. Call EnsureSchema before first use.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:    pool,
		written: make(map[string]string),
	}
}

// EnsureSchema creates the resources table if needed.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Add upserts every row of r. Rows whose content is unchanged since this
// store last wrote them are skipped.
func (s *Store) Add(ctx context.Context, r resource.Resource) error {
	for _, rw := range rowsOf(r) {
		id, content := rw.identity(), rw.contentHash()

		s.mu.RLock()
		prev, ok := s.written[id]
		s.mu.RUnlock()
		if ok && prev == content {
			continue
		}

		query, args, err := upsertOf(rw, id, content).ToSql()
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}
		if _, err := s.pool.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert %s: %w", rw.Key, err)
		}

		s.mu.Lock()
		s.written[id] = content
		s.mu.Unlock()
	}
	return nil
}

// batchSize is the number of resources upserted per round trip.
const batchSize = 200

// AddAll upserts the resources in batches, stopping at the first failed batch.
func (s *Store) AddAll(ctx context.Context, rs []resource.Resource) error {
	stored := 0
	for _, chunk := range worker.Batch(rs, batchSize) {
		batch, pending, err := s.queue(chunk)
		if err != nil {
			return err
		}
		if batch.Len() == 0 {
			continue
		}
		if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upsert batch: %w", err)
		}

		s.mu.Lock()
		for id, content := range pending {
			s.written[id] = content
		}
		s.mu.Unlock()
		stored += batch.Len()
	}
	log.Info().Int("count", len(rs)).Int("rows", stored).Msg("Stored resources")
	return nil
}

// queue builds the upserts for the rows of rs that changed since this store
// last wrote them.
func (s *Store) queue(rs []resource.Resource) (*pgx.Batch, map[string]string, error) {
	batch := &pgx.Batch{}
	pending := make(map[string]string)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range rs {
		for _, rw := range rowsOf(r) {
			id, content := rw.identity(), rw.contentHash()
			if prev, queued := pending[id]; queued {
				if prev == content {
					continue
				}
			} else if prev, ok := s.written[id]; ok && prev == content {
				continue
			}
			query, args, err := upsertOf(rw, id, content).ToSql()
			if err != nil {
				return nil, nil, fmt.Errorf("build upsert: %w", err)
			}
			batch.Queue(query, args...)
			pending[id] = content
		}
	}
	return batch, pending, nil
}

// GetBy returns the resources matching c, regrouped from their rows in
// insertion order.
func (s *Store) GetBy(ctx context.Context, c resource.Criteria) ([]resource.Resource, error) {
	query, args, err := selectOf(c).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query resources: %w", err)
	}
	defer rows.Close()

	var out []row
	for rows.Next() {
		var rw row
		if err := rows.Scan(
			&rw.Key, &rw.Kind, &rw.Project, &rw.Path, &rw.SourceLocale, &rw.TargetLocale,
			&rw.Context, &rw.Datatype, &rw.Flavor, &rw.State, &rw.Comment, &rw.Ordinal, &rw.Category,
			&rw.Source, &rw.Target,
		); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}
	return regroup(out), nil
}

// Contains reports whether every row of r is stored with the same content.
func (s *Store) Contains(ctx context.Context, r resource.Resource) (bool, error) {
	want := make(map[string]string)
	var ids []string
	for _, rw := range rowsOf(r) {
		id := rw.identity()
		want[id] = rw.contentHash()
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return false, nil
	}

	query, args, err := psql.Select("identity", "content_hash").From(table).Where(sq.Eq{"identity": ids}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build contains: %w", err)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("query contains: %w", err)
	}
	got, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) ([2]string, error) {
		var pair [2]string
		err := row.Scan(&pair[0], &pair[1])
		return pair, err
	})
	if err != nil {
		return false, fmt.Errorf("scan contains: %w", err)
	}

	matched := 0
	for _, pair := range got {
		if want[pair[0]] == pair[1] {
			matched++
		}
	}
	return matched == len(ids), nil
}

// Size returns the number of stored rows.
func (s *Store) Size(ctx context.Context) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count resources: %w", err)
	}
	return n, nil
}

// Remove deletes the rows matching c and returns how many went.
func (s *Store) Remove(ctx context.Context, c resource.Criteria) (int64, error) {
	if c.IsEmpty() {
		return 0, ErrInsufficientCriteria
	}
	query, args, err := psql.Delete(table).Where(whereOf(c)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("remove resources: %w", err)
	}
	s.forget()

	log.Info().Int64("rows", tag.RowsAffected()).Msg("Removed resources")
	return tag.RowsAffected(), nil
}

// Clear deletes every row.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear resources: %w", err)
	}
	s.forget()
	return nil
}

func (s *Store) forget() {
	s.mu.Lock()
	s.written = make(map[string]string)
	s.mu.Unlock()
}

func upsertOf(rw row, id, content string) sq.InsertBuilder {
	return psql.Insert(table).
		Columns(append([]string{"identity", "content_hash"}, columns...)...).
		Values(id, content,
			rw.Key, string(rw.Kind), rw.Project, rw.Path, rw.SourceLocale, rw.TargetLocale,
			rw.Context, rw.Datatype, rw.Flavor, rw.State, rw.Comment, rw.Ordinal, rw.Category,
			rw.Source, rw.Target).
		Suffix("ON CONFLICT (identity) DO UPDATE SET " +
			"content_hash = excluded.content_hash, state = excluded.state, " +
			"comment = excluded.comment, source = excluded.source, target = excluded.target")
}

func selectOf(c resource.Criteria) sq.SelectBuilder {
	q := psql.Select(columns...).From(table)
	if !c.IsEmpty() {
		q = q.Where(whereOf(c))
	}
	return q.OrderBy("id")
}

// whereOf maps criteria to a WHERE clause. Locale matches the target
// locale, or the source locale of rows without one.
func whereOf(c resource.Criteria) sq.Sqlizer {
	eq := sq.Eq{}
	set := func(col, v string) {
		if v != "" {
			eq[col] = v
		}
	}
	set("reskey", c.Key)
	set("kind", string(c.Kind))
	set("project", c.Project)
	set("path", c.Path)
	set("source_locale", c.SourceLocale)
	set("target_locale", c.TargetLocale)
	set("context", c.Context)
	set("datatype", c.Datatype)
	set("flavor", c.Flavor)
	set("state", c.State)

	if c.Locale == "" {
		return eq
	}
	locale := sq.Or{
		sq.Eq{"target_locale": c.Locale},
		sq.And{sq.Eq{"target_locale": ""}, sq.Eq{"source_locale": c.Locale}},
	}
	if len(eq) == 0 {
		return locale
	}
	return sq.And{eq, locale}
}

// row is one stored unit of text.
type row struct {
	Key          string
	Kind         resource.Kind
	Project      string
	Path         string
	SourceLocale string
	TargetLocale string
	Context      string
	Datatype     string
	Flavor       string
	State        string
	Comment      string
	// Ordinal is the array index, -1 for other kinds.
	Ordinal  int
	Category string
	Source   string
	Target   string
}

// group identifies the resource a row belongs to.
func (rw row) group() string {
	return textutil.Hash(string(rw.Kind), rw.Project, rw.Path, rw.SourceLocale, rw.TargetLocale,
		rw.Key, rw.Context, rw.Datatype, rw.Flavor)
}

func (rw row) identity() string {
	return textutil.Hash(rw.group(), strconv.Itoa(rw.Ordinal), rw.Category)
}

func (rw row) contentHash() string {
	return textutil.Hash(rw.Source, rw.Target, rw.State, rw.Comment)
}

// rowsOf flattens r. Array gaps and empty plural categories produce no row.
func rowsOf(r resource.Resource) []row {
	b := r.Meta()
	proto := row{
		Key:          b.Key,
		Kind:         r.Kind(),
		Project:      b.Project,
		Path:         b.Path,
		SourceLocale: b.SourceLocale,
		TargetLocale: b.TargetLocale,
		Context:      b.Context,
		Datatype:     b.Datatype,
		Flavor:       b.Flavor,
		State:        b.State,
		Comment:      b.Comment,
		Ordinal:      -1,
	}

	var out []row
	switch res := r.(type) {
	case *resource.Array:
		for i := range res.Len() {
			src, ok := res.SourceAt(i)
			if !ok {
				continue
			}
			rw := proto
			rw.Ordinal = i
			rw.Source = src
			rw.Target, _ = res.TargetAt(i)
			out = append(out, rw)
		}
	case *resource.Plural:
		for _, cat := range res.Categories() {
			src, ok := res.SourcePlurals[cat]
			if !ok {
				continue
			}
			rw := proto
			rw.Category = cat
			rw.Source = src
			rw.Target = res.TargetPlurals[cat]
			out = append(out, rw)
		}
	default:
		if str, ok := resource.AsString(r); ok {
			rw := proto
			rw.Source = str.Source
			rw.Target = str.Target
			out = append(out, rw)
		}
	}
	return out
}

// regroup rebuilds resources from rows, keeping first-appearance order.
func regroup(rows []row) []resource.Resource {
	var out []resource.Resource
	byGroup := make(map[string]resource.Resource)

	for _, rw := range rows {
		g := rw.group()
		r, ok := byGroup[g]
		if !ok {
			b := resource.Base{
				Project:      rw.Project,
				Key:          rw.Key,
				Path:         rw.Path,
				SourceLocale: rw.SourceLocale,
				TargetLocale: rw.TargetLocale,
				Context:      rw.Context,
				Comment:      rw.Comment,
				Flavor:       rw.Flavor,
				Datatype:     rw.Datatype,
				State:        rw.State,
				Origin:       resource.OriginSource,
			}
			if rw.TargetLocale != "" {
				b.Origin = resource.OriginTarget
			}
			r = resource.Default.New(b, rw.Kind)
			r.Meta().Datatype = rw.Datatype
			byGroup[g] = r
			out = append(out, r)
		}

		switch res := r.(type) {
		case *resource.Array:
			res.SetSource(rw.Ordinal, rw.Source)
			if rw.Target != "" {
				res.SetTarget(rw.Ordinal, rw.Target)
			}
		case *resource.Plural:
			res.SetSource(rw.Category, rw.Source)
			if rw.Target != "" {
				res.SetTarget(rw.Category, rw.Target)
			}
		default:
			if str, ok := resource.AsString(r); ok {
				str.Source = rw.Source
				str.Target = rw.Target
			}
		}
	}
	return out
}
