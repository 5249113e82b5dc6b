package minio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	s := &Storage{bucketName: "tasks"}

	require.Equal(t, "t1/i1.jpg", s.ResolvePath("t1", "i1"))
	require.Equal(t, s.ResolvePath("t1", "i1"), s.ResolvePath("t1", "i1"))
	require.NotEqual(t, s.ResolvePath("t1", "i1"), s.ResolvePath("t1", "i2"))
}
