package wappalyzer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bucketServer serves one technology per bucket, named after the
// bucket, and fails the buckets listed in failing.
func bucketServer(t *testing.T, failing ...string) *httptest.Server {
	t.Helper()
	failSet := make(map[string]bool, len(failing))
	for _, b := range failing {
		failSet[b] = true
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bucket := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/technologies/"), ".json")
		if failSet[bucket] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, `{"Tech-%s": {"cats": [10]}}`, bucket)
	}))
}

func TestFetchAllTechnologiesMergesEveryBucket(t *testing.T) {
	srv := bucketServer(t)
	defer srv.Close()

	merged, failed := testClient(1).FetchAllTechnologies(context.Background(), srv.URL)
	assert.Zero(t, failed)
	require.Len(t, merged, 27)
	assert.Contains(t, merged, "Tech-a")
	assert.Contains(t, merged, "Tech-z")
	assert.Contains(t, merged, "Tech-_")
}

func TestFetchAllTechnologiesToleratesFailedBuckets(t *testing.T) {
	srv := bucketServer(t, "q", "x")
	defer srv.Close()

	merged, failed := testClient(2).FetchAllTechnologies(context.Background(), srv.URL)
	assert.Equal(t, 2, failed)
	require.Len(t, merged, 25)
	assert.NotContains(t, merged, "Tech-q")
	assert.NotContains(t, merged, "Tech-x")
	assert.Contains(t, merged, "Tech-a")
}

func TestBucketNamesCoverAlphabetAndCatchAll(t *testing.T) {
	names := bucketNames()
	require.Len(t, names, 27)
	assert.Equal(t, "a", names[0])
	assert.Equal(t, "z", names[25])
	assert.Equal(t, "_", names[26])
}
