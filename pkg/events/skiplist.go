package events

import (
	"fmt"
	"strings"
)

// SkipList holds, per event name, the ids of events that must never be
// processed. It is loaded from configuration and consulted by the Router
// before dispatch.
type SkipList map[string]map[string]struct{}

// ParseSkipList parses "eventName=id1,id2;eventName2=id3". Whitespace around
// names and ids is ignored; an empty string yields an empty list.
func ParseSkipList(s string) (SkipList, error) {
	list := SkipList{}
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, ids, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("events: invalid skip list entry %q", entry)
		}
		for _, id := range strings.Split(ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				list.Add(name, id)
			}
		}
	}
	return list, nil
}

// Add marks id as skipped for eventName.
func (s SkipList) Add(eventName, id string) {
	ids, ok := s[eventName]
	if !ok {
		ids = map[string]struct{}{}
		s[eventName] = ids
	}
	ids[id] = struct{}{}
}

// Contains reports whether id is skipped for eventName.
func (s SkipList) Contains(eventName, id string) bool {
	if id == "" {
		return false
	}
	_, ok := s[eventName][id]
	return ok
}
