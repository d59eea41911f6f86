package aws_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	controller "github.com/isometry/lambda-http-server/internal/controllers/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAWS struct {
	parameters map[string]string
	objects    map[string][]byte
}

func (f *fakeAWS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("X-Amz-Target"), "AmazonSSM.") {
		f.ssm(w, r)
		return
	}
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, _ := io.ReadAll(r.Body)
	f.objects[r.URL.Path] = body
	w.WriteHeader(http.StatusOK)
}

func (f *fakeAWS) ssm(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name           string
		WithDecryption bool
	}
	_ = json.NewDecoder(r.Body).Decode(&input)
	w.Header().Set("Content-Type", "application/x-amz-json-1.1")
	value, ok := f.parameters[input.Name]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"__type":"ParameterNotFound","message":"not found"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"Parameter": map[string]any{"Name": input.Name, "Type": "SecureString", "Value": value},
	})
}

func newController(t *testing.T, fake *fakeAWS) *controller.Controller {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	cfg := aws.Config{
		Region:                     "eu-west-1",
		Credentials:                aws.AnonymousCredentials{},
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
	}
	c, err := controller.NewController(context.Background(),
		controller.WithConfig(cfg),
		controller.WithEndpoint(server.URL))
	require.NoError(t, err)
	return c
}

func TestController_GetSecret(t *testing.T) {
	c := newController(t, &fakeAWS{parameters: map[string]string{"/orders/db-password": "hunter2"}})

	testCases := []struct {
		Name     string
		Param    string
		Expected string
		Err      bool
	}{
		{Name: "existing", Param: "/orders/db-password", Expected: "hunter2"},
		{Name: "missing", Param: "/orders/unknown", Err: true},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			value, err := c.GetSecret(context.Background(), tc.Param, true)
			if tc.Err {
				assert.ErrorContains(t, err, tc.Param)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, value)
		})
	}
}

func TestController_PutS3Object(t *testing.T) {
	fake := &fakeAWS{objects: map[string][]byte{}}
	c := newController(t, fake)

	require.NoError(t, c.PutS3Object(context.Background(), "captures", "local/req-1.json", []byte(`{"ok":true}`)))
	assert.Equal(t, []byte(`{"ok":true}`), fake.objects["/captures/local/req-1.json"])

	assert.Error(t, c.PutS3Object(context.Background(), "", "key", nil))
}
