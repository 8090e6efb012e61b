package aadauth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/portalinsights/aadauth/core"
)

func Test_AuthHeaderTokenExtractor(t *testing.T) {
	testCases := []struct {
		name          string
		request       *http.Request
		wantToken     string
		wantErrorKind core.Kind
	}{
		{
			name:    "empty / no header",
			request: &http.Request{Header: http.Header{}},
		},
		{
			name: "token in header",
			request: &http.Request{
				Header: http.Header{
					"Authorization": []string{"Bearer i-am-a-token"},
				},
			},
			wantToken: "i-am-a-token",
		},
		{
			name: "lowercase scheme",
			request: &http.Request{
				Header: http.Header{
					"Authorization": []string{"bearer i-am-a-token"},
				},
			},
			wantToken: "i-am-a-token",
		},
		{
			name: "extra whitespace between scheme and token",
			request: &http.Request{
				Header: http.Header{
					"Authorization": []string{"Bearer    i-am-a-token"},
				},
			},
			wantToken: "i-am-a-token",
		},
		{
			name: "no bearer",
			request: &http.Request{
				Header: http.Header{
					"Authorization": []string{"i-am-a-token"},
				},
			},
			wantErrorKind: core.KindMalformedHeader,
		},
		{
			name: "too many parts",
			request: &http.Request{
				Header: http.Header{
					"Authorization": []string{"Bearer i-am-a-token and-more"},
				},
			},
			wantErrorKind: core.KindMalformedHeader,
		},
		{
			name: "only whitespace",
			request: &http.Request{
				Header: http.Header{
					"Authorization": []string{"   "},
				},
			},
			wantErrorKind: core.KindMalformedHeader,
		},
		{
			name: "basic scheme",
			request: &http.Request{
				Header: http.Header{
					"Authorization": []string{"Basic abc"},
				},
			},
			wantErrorKind: core.KindUnsupportedScheme,
		},
		{
			name: "bearer-like scheme",
			request: &http.Request{
				Header: http.Header{
					"Authorization": []string{"Bearer2 i-am-a-token"},
				},
			},
			wantErrorKind: core.KindUnsupportedScheme,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			gotToken, err := AuthHeaderTokenExtractor(testCase.request)

			if testCase.wantErrorKind != "" {
				assert.Equal(t, testCase.wantErrorKind, core.KindOf(err))
				assert.ErrorIs(t, err, core.ErrUnauthenticated)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, testCase.wantToken, gotToken)
		})
	}
}
