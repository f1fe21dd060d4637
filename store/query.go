package store

import (
	"encoding/hex"
	"fmt"

	"github.com/jrwynneiii/nrfrx/datalink"
)

// Packets returns the packets logged for runID in the order they were found.
func (s *Store) Packets(runID string) ([]datalink.Packet, error) {
	rows, err := s.db.Query(`
		SELECT bit_offset, address, length, pid, no_ack, payload, crc
		FROM packets WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query packets: %w", err)
	}
	defer rows.Close()

	var pkts []datalink.Packet
	for rows.Next() {
		var (
			p          datalink.Packet
			addr, data string
		)
		if err := rows.Scan(&p.Offset, &addr, &p.Length, &p.PID, &p.NoAck, &data, &p.CRC); err != nil {
			return nil, fmt.Errorf("scan packet: %w", err)
		}
		a, err := hex.DecodeString(addr)
		if err != nil || len(a) != len(p.Address) {
			return nil, fmt.Errorf("bad address %q in run %s", addr, runID)
		}
		copy(p.Address[:], a)
		if p.Payload, err = hex.DecodeString(data); err != nil {
			return nil, fmt.Errorf("bad payload %q in run %s: %w", data, runID, err)
		}
		pkts = append(pkts, p)
	}
	return pkts, rows.Err()
}

type RunSummary struct {
	ID         string
	Input      string
	Candidates int
	Accepted   int
}

func (s *Store) Runs() ([]RunSummary, error) {
	rows, err := s.db.Query(`
		SELECT run_id, input, COALESCE(candidates, 0), COALESCE(accepted, 0)
		FROM runs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Input, &r.Candidates, &r.Accepted); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
