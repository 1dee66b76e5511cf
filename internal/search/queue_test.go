// Copyright 2022-2026 The Cage Authors
// This file is part of the cage library.

package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cagehunt/cage/internal/template"
)

func et(name string) template.ExploitTemplate {
	return template.ExploitTemplate{Name: name}
}

func TestTemplateQueuePopsLIFO(t *testing.T) {
	q := newTemplateQueue([]template.ExploitTemplate{et("a"), et("b"), et("c")})

	first, ok := q.pop()
	require.True(t, ok)
	require.Equal(t, "c", first.Name)

	second, ok := q.pop()
	require.True(t, ok)
	require.Equal(t, "b", second.Name)
}

func TestTemplateQueuePopEmpty(t *testing.T) {
	q := newTemplateQueue(nil)
	_, ok := q.pop()
	require.False(t, ok)
}

// TestTemplateQueuePushFrontOrdering mirrors the original engine's
// double front-insert: pop reads from the opposite end of the queue from
// pushFront, so a front-inserted item runs only after everything already
// queued -- the "front" position is the position farthest from pop, not
// the position that runs next.
func TestTemplateQueuePushFrontOrdering(t *testing.T) {
	q := newTemplateQueue([]template.ExploitTemplate{et("rest")})

	q.pushFront(et("repeated_sync"))
	q.pushFront(et("single_sync"))

	first, ok := q.pop()
	require.True(t, ok)
	require.Equal(t, "rest", first.Name)

	second, ok := q.pop()
	require.True(t, ok)
	require.Equal(t, "repeated_sync", second.Name)

	third, ok := q.pop()
	require.True(t, ok)
	require.Equal(t, "single_sync", third.Name)
}
