package printing

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRDataURI(t *testing.T) {
	uri, err := QRDataURI("POS-20260101-0001|324.00", 0)
	require.NoError(t, err)

	const prefix = "data:image/png;base64,"
	require.True(t, strings.HasPrefix(string(uri), prefix))
	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(string(uri), prefix))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))

	_, err = QRDataURI("", 0)
	assert.Error(t, err)
}
