// Copyright 2026 VtapeHQ, Inc.
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLoaded(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteLoaded(5))
	assert.Equal(t, "5\n", buf.String())

	buf.Reset()
	require.NoError(t, w.WriteLoaded(0))
	assert.Equal(t, "0\n", buf.String(), "empty drive reports 0")
}

func TestWriteSlot(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteSlot(1, "VTAPE-00001"))
	require.NoError(t, w.WriteSlot(2, "VTAPE-00002"))

	assert.Equal(t, "1:VTAPE-00001\n2:VTAPE-00002\n", buf.String())
	assert.Equal(t, 2, w.Count())
}

func TestWriteCount(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteCount(8192))
	assert.Equal(t, "8192\n", buf.String())
}
