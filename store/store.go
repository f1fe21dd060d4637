package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jrwynneiii/nrfrx/datalink"
	"github.com/jrwynneiii/nrfrx/decode"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		input TEXT NOT NULL,
		started_at TEXT NOT NULL,
		samples INTEGER,
		bits INTEGER,
		candidates INTEGER,
		accepted INTEGER,
		final_sps REAL,
		elapsed_secs REAL
	);

	CREATE TABLE IF NOT EXISTS packets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		bit_offset INTEGER NOT NULL,
		address TEXT NOT NULL,
		length INTEGER NOT NULL,
		pid INTEGER NOT NULL,
		no_ack INTEGER NOT NULL,
		payload TEXT NOT NULL,
		crc INTEGER NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id)
	);

	CREATE INDEX IF NOT EXISTS packets_address ON packets(address);
`

// Store logs decoded packets to a SQLite database.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	log.Debugf("[store] Opened %s", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Run records the packets of one decode. It is a decode.Sink.
type Run struct {
	ID    string
	store *Store
}

func (s *Store) BeginRun(input string) (*Run, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`INSERT INTO runs (run_id, input, started_at) VALUES (?, ?, ?)`,
		id, input, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	log.Debugf("[store] Started run %s", id)
	return &Run{ID: id, store: s}, nil
}

func (r *Run) WritePacket(p datalink.Packet) error {
	noAck := 0
	if p.NoAck {
		noAck = 1
	}
	_, err := r.store.db.Exec(`
		INSERT INTO packets (run_id, bit_offset, address, length, pid, no_ack, payload, crc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, p.Offset, p.AddressHex(), p.Length, p.PID, noAck, p.PayloadHex(), p.CRC)
	if err != nil {
		return fmt.Errorf("insert packet: %w", err)
	}
	return nil
}

func (r *Run) Finish(stats decode.Stats) error {
	_, err := r.store.db.Exec(`
		UPDATE runs SET samples = ?, bits = ?, candidates = ?, accepted = ?, final_sps = ?, elapsed_secs = ?
		WHERE run_id = ?`,
		stats.Samples, stats.Datalink.Bits, stats.Datalink.Candidates, stats.Datalink.Accepted,
		stats.FinalState.SPS, stats.Elapsed.Seconds(), r.ID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}
