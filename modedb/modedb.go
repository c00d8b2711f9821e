// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package modedb holds types to describe the facility database of
// approved SDI video modes and rack configurations.
package modedb // import "github.com/go-bcast/sditx/modedb"

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-bcast/sditx/tx"
	_ "github.com/go-sql-driver/mysql"
)

const (
	host = "localhost"
)

var (
	usr = "username"
	pwd = "s3cr3t"

	drvName = "mysql"
)

// Mode is one approved video mode row.
type Mode struct {
	ID         uint32
	Name       string
	Width      uint32
	Height     uint32
	Refresh    uint32
	Rate       uint32
	Interlaced bool

	Clock  uint32
	HFront uint32
	HSync  uint32
	HBack  uint32
	HTotal uint32
	VFront uint32
	VSync  uint32
	VBack  uint32
	VTotal uint32
}

// Video converts a mode row into a transmit video mode.
func (m Mode) Video() tx.VideoMode {
	vactive := m.Height
	if m.Interlaced {
		vactive /= 2
	}
	pos := tx.Mode(m.Rate) != tx.ModeSD
	return tx.VideoMode{
		Name:    m.Name,
		Rate:    tx.Mode(m.Rate),
		Width:   m.Width,
		Height:  m.Height,
		Refresh: m.Refresh,
		Timing: tx.DisplayTiming{
			HActive: m.Width, HFrontPorch: m.HFront, HSyncLen: m.HSync,
			HBackPorch: m.HBack, HTotal: m.HTotal,
			VActive: vactive, VFrontPorch: m.VFront, VSyncLen: m.VSync,
			VBackPorch: m.VBack, VTotal: m.VTotal,
			Clock: m.Clock, Refresh: m.Refresh,
			Interlaced: m.Interlaced,
			HSyncPos:   pos,
			VSyncPos:   pos,
		},
	}
}

// DB exposes convenience methods to easily retrieve the approved SDI
// video modes and rack configurations from the facility database.
type DB struct {
	db   *sql.DB
	name string // name of the facility database
}

// Open opens a connection to the facility database dbname.
func Open(dbname string) (*DB, error) {
	db, err := sql.Open(drvName, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("modedb: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		return nil, fmt.Errorf("modedb: could not ping %q db: %w", dbname, err)
	}

	return &DB{db: db, name: dbname}, nil
}

func dsn(db string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s", usr, pwd, host, db)
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("modedb: could not ping %q db: %w", dbname, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// LastRevision returns the name of the most recent approved mode-table
// revision.
func (db *DB) LastRevision(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rev := ""
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT revision FROM racks ORDER BY datetime DESC LIMIT 1",
	)
	if err != nil {
		return rev, fmt.Errorf("modedb: could not query revision: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		err = rows.Scan(&rev)
		if err != nil {
			return rev, fmt.Errorf("modedb: could not get revision value: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return rev, fmt.Errorf("modedb: could not scan db for revision: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return rev, fmt.Errorf("modedb: context error while retrieving revision: %w", err)
	}

	return rev, nil
}

// LastRackID returns the identifier of the most recently registered
// transmission rack.
func (db *DB) LastRackID(ctx context.Context) (uint32, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rackid uint32
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT identifier FROM racks ORDER BY datetime DESC LIMIT 1",
	)
	if err != nil {
		return rackid, fmt.Errorf("modedb: could not query rack-id: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		err = rows.Scan(&rackid)
		if err != nil {
			return rackid, fmt.Errorf("modedb: could not get rack-id value: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return rackid, fmt.Errorf("modedb: could not scan db for rack-id: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return rackid, fmt.Errorf("modedb: context error while retrieving rack-id: %w", err)
	}

	return rackid, nil
}

// Modes returns the approved video modes of the given revision.
func (db *DB) Modes(ctx context.Context, revision string) ([]Mode, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var modes []Mode
	rows, err := db.db.QueryContext(
		ctx,
		`
SELECT modes.* FROM modes
JOIN revision_modes ON modes.identifier=revision_modes.mode
JOIN revisions      ON revisions.identifier=revision_modes.revision
WHERE (
	revisions.name=?
)
`,
		revision,
	)
	if err != nil {
		return modes, fmt.Errorf("modedb: could not run modes query: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		var m Mode
		err = rows.Scan(
			&m.ID, &m.Name,
			&m.Width, &m.Height, &m.Refresh,
			&m.Rate, &m.Interlaced,
			&m.Clock,
			&m.HFront, &m.HSync, &m.HBack, &m.HTotal,
			&m.VFront, &m.VSync, &m.VBack, &m.VTotal,
		)
		if err != nil {
			return modes, fmt.Errorf("modedb: could not scan row %d for modes: %w", i, err)
		}
		i++

		modes = append(modes, m)
	}

	if err := rows.Err(); err != nil {
		return modes, fmt.Errorf("modedb: could not scan db for modes: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return modes, fmt.Errorf("modedb: context error while retrieving modes: %w", err)
	}

	return modes, nil
}

// VideoModes returns the approved video modes of the given revision,
// converted for the transmit device.
func (db *DB) VideoModes(ctx context.Context, revision string) ([]tx.VideoMode, error) {
	modes, err := db.Modes(ctx, revision)
	if err != nil {
		return nil, err
	}

	vms := make([]tx.VideoMode, len(modes))
	for i, m := range modes {
		vms[i] = m.Video()
	}
	return vms, nil
}
