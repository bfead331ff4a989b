package result

import (
	"log"
	"sync"

	"gopkg.in/mgo.v2"
)

// Worker pool for archive inserts, one session copy per worker.

const maxMgoWorkers = 4

// Archiver mirrors result tables into a MongoDB collection, in addition to
// the per-run files on disk.
type Archiver struct {
	session *mgo.Session
	db      string
	coll    string
	jobs    chan *Table
	wg      sync.WaitGroup
}

// NewArchiver connects to url and starts the insert workers.
func NewArchiver(url, db, coll string) (*Archiver, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, err
	}

	a := &Archiver{
		session: session,
		db:      db,
		coll:    coll,
		jobs:    make(chan *Table, 16),
	}
	for i := 0; i < maxMgoWorkers; i++ {
		a.wg.Add(1)
		go a.worker()
	}
	return a, nil
}

func (a *Archiver) worker() {
	defer a.wg.Done()

	s := a.session.Copy()
	defer s.Close()

	c := s.DB(a.db).C(a.coll)
	for t := range a.jobs {
		if err := c.Insert(t); err != nil {
			log.Printf("archive insert %s_%s: %v", t.Cell, t.Testbench, err)
		}
	}
}

// Put queues a table for archiving.
func (a *Archiver) Put(t *Table) {
	a.jobs <- t
}

// Close drains the queue, waits for the workers and closes the session.
func (a *Archiver) Close() {
	close(a.jobs)
	a.wg.Wait()
	a.session.Close()
}
