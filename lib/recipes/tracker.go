package recipes

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Tracker maintains the position of a worker from the start and end
// notifications of suites, tests and keywords. Suites and tests are
// identified by their long name, keywords by their index below the parent.
type Tracker struct {
	mu       sync.Mutex
	position []string
	rowIndex int
}

// StartSuite enters a suite
func (t *Tracker) StartSuite(longName string) { t.push(longName) }

// EndSuite leaves the current suite
func (t *Tracker) EndSuite() { t.pop() }

// StartTest enters a test
func (t *Tracker) StartTest(longName string) { t.push(longName) }

// EndTest leaves the current test
func (t *Tracker) EndTest() { t.pop() }

// StartKeyword enters the next keyword of the current level
func (t *Tracker) StartKeyword() {
	t.mu.Lock()
	defer t.mu.Unlock()

	parent := ""
	if len(t.position) > 0 {
		parent = t.position[len(t.position)-1]
	}
	t.position = append(t.position, fmt.Sprintf("%s.%d", parent, t.rowIndex))
	t.rowIndex = 0
}

// EndKeyword leaves the current keyword, the next sibling gets the following index
func (t *Tracker) EndKeyword() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.position) == 0 {
		return
	}
	top := t.position[len(t.position)-1]
	if idx, err := strconv.Atoi(top[strings.LastIndex(top, ".")+1:]); err == nil {
		t.rowIndex = idx + 1
	}
	t.position = t.position[:len(t.position)-1]
}

// Path returns the current position or "" outside of any suite
func (t *Tracker) Path() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.position) == 0 {
		return ""
	}
	return t.position[len(t.position)-1]
}

func (t *Tracker) push(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = append(t.position, name)
}

func (t *Tracker) pop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.position) > 0 {
		t.position = t.position[:len(t.position)-1]
	}
}
