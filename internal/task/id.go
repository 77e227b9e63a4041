package task

import (
	"fmt"
	"regexp"
	"strconv"
)

var idPattern = regexp.MustCompile(`^task(\d+)\.(\d+)$`)

// ID is a parsed task identifier.
type ID struct {
	Lecture int
	Index   int
}

func (id ID) String() string {
	return fmt.Sprintf("task%d.%d", id.Lecture, id.Index)
}

// Less orders IDs naturally: task1.2 < task1.10 < task2.1.
func (id ID) Less(other ID) bool {
	if id.Lecture != other.Lecture {
		return id.Lecture < other.Lecture
	}
	return id.Index < other.Index
}

// ParseID accepts "task<lecture>.<index>" with unsigned decimal parts.
func ParseID(name string) (ID, error) {
	m := idPattern.FindStringSubmatch(name)
	if m == nil {
		return ID{}, fmt.Errorf("invalid task id %q: expected task<lecture>.<index>", name)
	}
	lecture, err := strconv.Atoi(m[1])
	if err != nil {
		return ID{}, fmt.Errorf("invalid task id %q: %w", name, err)
	}
	index, err := strconv.Atoi(m[2])
	if err != nil {
		return ID{}, fmt.Errorf("invalid task id %q: %w", name, err)
	}
	return ID{Lecture: lecture, Index: index}, nil
}
