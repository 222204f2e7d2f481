package checkpoint

import (
	"path/filepath"
	"testing"

	bolt "go.etcd.io/bbolt"
)

func openTestDB(tst *testing.T) *bolt.DB {
	db, err := bolt.Open(filepath.Join(tst.TempDir(), "ckp.db"), 0666, nil)
	if err != nil {
		tst.Fatal("Error opening database: ", err)
	}
	tst.Cleanup(func() { db.Close() })
	return db
}

func TestStateRoundtrip(tst *testing.T) {
	db := openTestDB(tst)
	c := NewCheckpointIO(db, []byte("hmc"), 0)

	saved := &State{
		Model:  []float64{16, 15, 17, 5},
		Misfit: 0.125,
		Iter:   42,
		Final:  true,
	}
	if err := c.Save(saved); err != nil {
		tst.Fatal("Error saving state: ", err)
	}

	got, err := c.GetState()
	if err != nil {
		tst.Fatal("Error loading state: ", err)
	}
	if got == nil {
		tst.Fatal("Expected a stored state")
	}
	if got.Iter != saved.Iter || got.Misfit != saved.Misfit || got.Final != saved.Final {
		tst.Errorf("State mismatch: %+v", got)
	}
	if len(got.Model) != len(saved.Model) {
		tst.Fatalf("Wrong model length: %d", len(got.Model))
	}
	for i := range saved.Model {
		if got.Model[i] != saved.Model[i] {
			tst.Errorf("Model value %d mismatch: %v != %v", i, got.Model[i], saved.Model[i])
		}
	}
}

func TestEmptyDatabase(tst *testing.T) {
	db := openTestDB(tst)
	c := NewCheckpointIO(db, []byte("mh"), 0)
	state, err := c.GetState()
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if state != nil {
		tst.Error("Expected no state in an empty database")
	}
}

func TestSeparateKeys(tst *testing.T) {
	db := openTestDB(tst)
	a := NewCheckpointIO(db, []byte("mh"), 0)
	b := NewCheckpointIO(db, []byte("hmc"), 0)

	if err := a.Save(&State{Model: []float64{1}, Iter: 1}); err != nil {
		tst.Fatal("Error: ", err)
	}
	state, err := b.GetState()
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if state != nil {
		tst.Error("Keys should not share state")
	}
}

func TestThrottle(tst *testing.T) {
	db := openTestDB(tst)
	c := NewCheckpointIO(db, []byte("mh"), 3600)
	if !c.Old() {
		tst.Error("A fresh CheckpointIO should report an old checkpoint")
	}
	c.SetNow()
	if c.Old() {
		tst.Error("Checkpoint should be recent right after SetNow")
	}
}

func TestNilDatabase(tst *testing.T) {
	if err := SaveData(nil, []byte("k"), []byte("v")); err != nil {
		tst.Error("SaveData on a nil database should be a no-op")
	}
	data, err := LoadData(nil, []byte("k"))
	if err != nil || data != nil {
		tst.Error("LoadData on a nil database should return nothing")
	}
}
