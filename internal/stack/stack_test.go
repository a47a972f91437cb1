// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/hostbridge/internal/stack"
)

func TestLIFOOrder(t *testing.T) {
	var s stack.Stack
	s.Push([]byte("first"))
	s.Push([]byte("second"))
	s.Push([]byte("third"))

	got, ok := s.Inputs(3)
	require.True(t, ok)
	assert.Equal(t, [][]byte{[]byte("third"), []byte("second"), []byte("first")}, got)
}

func TestInputsInsufficient(t *testing.T) {
	var s stack.Stack
	s.Push([]byte("only"))
	_, ok := s.Inputs(2)
	assert.False(t, ok)
}

func TestDiscardAllEmptiesStack(t *testing.T) {
	var s stack.Stack
	s.Push([]byte("a"))
	s.Push([]byte("b"))
	s.DiscardAll()
	assert.Equal(t, 0, s.Len())
	_, ok := s.Inputs(1)
	assert.False(t, ok)
}

func TestEmptyStackInputsZero(t *testing.T) {
	var s stack.Stack
	got, ok := s.Inputs(0)
	require.True(t, ok)
	assert.Empty(t, got)
}
