package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignVerify(t *testing.T) {
	body := []byte(`{"event":"message"}`)
	header := Sign(body, "secret")

	assert.Regexp(t, `^sha256=[0-9a-f]{64}$`, header)
	assert.True(t, Verify(body, header, "secret"))
	assert.False(t, Verify(body, header, "other"))
	assert.False(t, Verify([]byte(`{}`), header, "secret"))
	assert.False(t, Verify(body, "sha256=", "secret"))
	assert.False(t, Verify(body, header[len("sha256="):], "secret"))
}
