// Package checkpoint persists sampler state in a bolt database so long
// runs can be resumed after an interruption.
package checkpoint

import (
	"encoding/json"
	"time"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"
)

// log is the global logging variable.
var log = logging.MustGetLogger("checkpoint")

// MAIN is the bucket name for all checkpoints.
var MAIN = []byte("main")

// State stores the sampler state at checkpoint time.
type State struct {
	Model  []float64
	Misfit float64
	Iter   int
	Final  bool
}

// CheckpointIO saves and loads sampler checkpoints under one key.
type CheckpointIO struct {
	db      *bolt.DB
	key     []byte
	last    time.Time
	seconds float64
}

// NewCheckpointIO creates a new CheckpointIO. Non-final saves are
// throttled to at most one per the given number of seconds.
func NewCheckpointIO(db *bolt.DB, key []byte, seconds float64) *CheckpointIO {
	return &CheckpointIO{
		db:      db,
		key:     key,
		seconds: seconds,
	}
}

// Save stores the sampler state in the database.
func (s *CheckpointIO) Save(state *State) error {
	// Even if saving fails, we do not want to run this code too often.
	s.SetNow()
	data, err := json.Marshal(state)
	if err != nil {
		log.Error("Error serializing checkpoint: ", err)
		return err
	}
	err = SaveData(s.db, s.key, data)
	if err != nil {
		log.Error("Error saving checkpoint: ", err)
	}
	return err
}

// GetState returns the stored sampler state, or nil if there is none.
func (s *CheckpointIO) GetState() (*State, error) {
	b, err := LoadData(s.db, s.key)
	if err != nil || b == nil {
		return nil, err
	}

	var state *State
	if err = json.Unmarshal(b, &state); err != nil {
		return nil, err
	}

	if state == nil || len(state.Model) == 0 {
		return nil, nil
	}

	if state.Final {
		log.Noticef("Found finished sampling checkpoint (iter=%v, misfit=%v)", state.Iter, state.Misfit)
	} else {
		log.Noticef("Found unfinished sampling checkpoint (iter=%v, misfit=%v)", state.Iter, state.Misfit)
	}

	return state, nil
}

// Old returns true if the last checkpoint save was long enough ago.
func (s *CheckpointIO) Old() bool {
	return time.Since(s.last).Seconds() > s.seconds
}

// SetNow sets the last checkpoint time to now.
func (s *CheckpointIO) SetNow() {
	s.last = time.Now()
}

// SaveData saves a value in the bolt database.
func SaveData(db *bolt.DB, key []byte, data []byte) error {
	if db == nil {
		return nil
	}
	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(MAIN)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// LoadData loads a value from the bolt database.
func LoadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(MAIN)
		if b == nil {
			return nil
		}
		if v := b.Get(key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
