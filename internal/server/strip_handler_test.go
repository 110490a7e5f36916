package server_test

import (
	"net/http"
	"testing"

	"github.com/aleister1102/urlstripper/internal/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type urlResultBody struct {
	Input           string   `json:"input"`
	Output          string   `json:"output"`
	RemovedParams   []string `json:"removed_params"`
	FragmentCleared bool     `json:"fragment_cleared"`
	Changed         bool     `json:"changed"`
}

func TestStripHandler_Strip(t *testing.T) {
	h := newTestStripHandler(options.NewStatic(testQueryRules, "*"))

	t.Run("SingleURL", func(t *testing.T) {
		e := newTestEcho()
		req := newJSONRequest(http.MethodPost, "/api/v1/strip", map[string]string{
			"url": "https://example.com/page?utm_source=x&id=1#top",
		})
		c, rec := newTestContext(e, req)

		require.NoError(t, h.Strip(c))

		var body urlResultBody
		assertJSONResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, "https://example.com/page?id=1", body.Output)
		assert.Equal(t, []string{"utm_source"}, body.RemovedParams)
		assert.True(t, body.FragmentCleared)
		assert.True(t, body.Changed)
	})

	t.Run("Batch", func(t *testing.T) {
		e := newTestEcho()
		req := newJSONRequest(http.MethodPost, "/api/v1/strip", map[string][]string{
			"urls": {"https://a.test/?gclid=1", "https://b.test/?id=2", "mailto:x@y.z"},
		})
		c, rec := newTestContext(e, req)

		require.NoError(t, h.Strip(c))

		var body struct {
			Results []urlResultBody `json:"results"`
		}
		assertJSONResponse(t, rec, http.StatusOK, &body)
		require.Len(t, body.Results, 3)
		assert.Equal(t, "https://a.test/", body.Results[0].Output)
		assert.False(t, body.Results[1].Changed)
		assert.Equal(t, "mailto:x@y.z", body.Results[2].Output)
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		e := newTestEcho()
		req := newJSONRequestRaw(http.MethodPost, "/api/v1/strip", `{"urls":[]}`)
		c, rec := newTestContext(e, req)

		require.NoError(t, h.Strip(c))

		var body struct {
			Results []urlResultBody `json:"results"`
		}
		assertJSONResponse(t, rec, http.StatusOK, &body)
		assert.Empty(t, body.Results)
	})

	t.Run("MissingURL", func(t *testing.T) {
		e := newTestEcho()
		req := newJSONRequestRaw(http.MethodPost, "/api/v1/strip", `{}`)
		c, rec := newTestContext(e, req)

		require.NoError(t, h.Strip(c))
		assertJSONResponse(t, rec, http.StatusBadRequest, nil)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		e := newTestEcho()
		req := newJSONRequestRaw(http.MethodPost, "/api/v1/strip", `{"url":`)
		c, rec := newTestContext(e, req)

		require.NoError(t, h.Strip(c))
		assertJSONResponse(t, rec, http.StatusBadRequest, nil)
	})
}

func TestStripHandler_SanitizeText(t *testing.T) {
	h := newTestStripHandler(options.NewStatic(testQueryRules, ""))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantText   string
		changed    bool
	}{
		{
			name:       "rewrites href",
			body:       `{"text":"<a href=\"https://x.test/?utm_medium=m&id=3\">x</a>"}`,
			wantStatus: http.StatusOK,
			wantText:   `<a href="https://x.test/?id=3">x</a>`,
			changed:    true,
		},
		{
			name:       "plain text untouched",
			body:       `{"text":"see https://x.test/?utm_source=a"}`,
			wantStatus: http.StatusOK,
			wantText:   "see https://x.test/?utm_source=a",
		},
		{
			name:       "missing text",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			c, rec := newTestContext(e, newJSONRequestRaw(http.MethodPost, "/api/v1/sanitize/text", tt.body))

			require.NoError(t, h.SanitizeText(c))

			if tt.wantStatus != http.StatusOK {
				assertJSONResponse(t, rec, tt.wantStatus, nil)
				return
			}
			var body struct {
				Text    string `json:"text"`
				Changed bool   `json:"changed"`
			}
			assertJSONResponse(t, rec, http.StatusOK, &body)
			assert.Equal(t, tt.wantText, body.Text)
			assert.Equal(t, tt.changed, body.Changed)
		})
	}
}

func TestStripHandler_SanitizeJSON(t *testing.T) {
	h := newTestStripHandler(options.NewStatic(testQueryRules, ""))

	t.Run("CommentPayload", func(t *testing.T) {
		e := newTestEcho()
		payload := `{"content":"<a href='https://x.test/?ref=home&id=1'>x</a>","author_url":"https://me.test/?utm_campaign=c","karma":1.50,"tags":["https://t.test/?gclid=z",null,true]}`
		c, rec := newTestContext(e, newJSONRequestRaw(http.MethodPost, "/api/v1/sanitize", payload))

		require.NoError(t, h.SanitizeJSON(c))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t,
			`{"content":"<a href='https://x.test/?id=1'>x</a>","author_url":"https://me.test/","karma":1.50,"tags":["https://t.test/",null,true]}`,
			rec.Body.String())
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		e := newTestEcho()
		c, rec := newTestContext(e, newJSONRequestRaw(http.MethodPost, "/api/v1/sanitize", `{"a":`))

		require.NoError(t, h.SanitizeJSON(c))
		assertJSONResponse(t, rec, http.StatusBadRequest, nil)
	})
}
