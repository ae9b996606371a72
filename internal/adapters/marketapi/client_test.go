package marketapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"makazi/internal/domain"
)

func testClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return New(ts.URL, 2*time.Second, 100), ts
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var got string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{}`))
	})

	var out map[string]any
	if err := c.do(context.Background(), call{method: "GET", path: "/bookings", token: "tok-1"}, &out); err != nil {
		t.Fatalf("do: %v", err)
	}
	if got != "Bearer tok-1" {
		t.Fatalf("Authorization = %q, want Bearer tok-1", got)
	}
}

func TestDo_RespectsCallerAuthorization(t *testing.T) {
	var got string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{}`))
	})

	h := http.Header{}
	h.Set("Authorization", "Basic abc")
	var out map[string]any
	if err := c.do(context.Background(), call{method: "GET", path: "/x", token: "tok-1", header: h}, &out); err != nil {
		t.Fatalf("do: %v", err)
	}
	if got != "Basic abc" {
		t.Fatalf("caller-set Authorization was overwritten: %q", got)
	}
}

func TestDo_PublicNeverSendsAuthorization(t *testing.T) {
	var got string
	var present bool
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, present = r.Header["Authorization"]
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{}`))
	})

	// token cached AND the caller tried to smuggle a header: both must be dropped
	h := http.Header{}
	h.Set("Authorization", "Bearer smuggled")
	var out map[string]any
	err := c.do(context.Background(), call{method: "GET", path: "/users/counts", token: "cached", public: true, header: h}, &out)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if present || got != "" {
		t.Fatalf("public call sent Authorization %q", got)
	}
}

func TestDo_ErrorMessagePrefersJSONFields(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"message":"Invalid credentials"}`, "Invalid credentials"},
		{`{"error":"Booking overlaps"}`, "Booking overlaps"},
		{`{"message":"first","error":"second"}`, "first"},
	}
	for _, tc := range cases {
		c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(422)
			_, _ = w.Write([]byte(tc.body))
		})
		err := c.do(context.Background(), call{method: "POST", path: "/bookings"}, nil)
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if apiErr.Message != tc.want {
			t.Fatalf("body %s: message = %q, want %q", tc.body, apiErr.Message, tc.want)
		}
		if apiErr.Status != 422 || apiErr.Kind != KindHTTP {
			t.Fatalf("unexpected error shape: %+v", apiErr)
		}
	}
}

func TestDo_ErrorMessageFallsBackToBodyThenStatusText(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		_, _ = w.Write([]byte("upstream exploded"))
	})
	err := c.do(context.Background(), call{method: "GET", path: "/x"}, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "upstream exploded" {
		t.Fatalf("want raw body text, got %v", err)
	}
	if apiErr.Body != "upstream exploded" {
		t.Fatalf("raw body not preserved: %q", apiErr.Body)
	}

	c2, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(503)
	})
	err = c2.do(context.Background(), call{method: "GET", path: "/x"}, nil)
	if !errors.As(err, &apiErr) || apiErr.Message != http.StatusText(503) {
		t.Fatalf("want status text fallback, got %v", err)
	}
}

func TestDo_TransportErrorKind(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close() // nothing listening anymore
	c := New(ts.URL, time.Second, 100)

	err := c.do(context.Background(), call{method: "GET", path: "/x"}, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindTransport || apiErr.Status != 0 {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestListProperties_EncodesQuery(t *testing.T) {
	var gotQuery map[string][]string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(domain.PropertyPage{})
	})

	min := 10000.0
	beds := 3
	_, err := c.ListProperties(context.Background(), "", domain.PropertyQuery{
		Q: "bungalow", City: "Nairobi", MinPrice: &min, Bedrooms: &beds, Limit: 20,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	expect := map[string]string{
		"q": "bungalow", "city": "Nairobi", "min_price": "10000", "bedrooms": "3", "limit": "20",
	}
	for k, v := range expect {
		if len(gotQuery[k]) != 1 || gotQuery[k][0] != v {
			t.Fatalf("query %s = %v, want %s", k, gotQuery[k], v)
		}
	}
	if _, ok := gotQuery["max_price"]; ok {
		t.Fatal("unset filter should be omitted")
	}
}

func TestUploadPropertyMedia_Multipart(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		f, hdr, err := r.FormFile("media")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(400)
			return
		}
		defer f.Close()
		if hdr.Filename != "house.jpg" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		_ = json.NewEncoder(w).Encode(map[string][]string{"images": {"/media/house.jpg"}})
	})

	images, err := c.UploadPropertyMedia(context.Background(), "tok", 7, "house.jpg", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(images) != 1 || images[0] != "/media/house.jpg" {
		t.Fatalf("unexpected images: %v", images)
	}
}

func TestBookingAction_Path(t *testing.T) {
	var gotPath string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(domain.Booking{ID: 9, Status: domain.BookingConfirmed})
	})

	b, err := c.ConfirmBooking(context.Background(), "tok", 9)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if gotPath != "/bookings/9/confirm" {
		t.Fatalf("path = %q", gotPath)
	}
	if b.Status != domain.BookingConfirmed {
		t.Fatalf("status = %q", b.Status)
	}
}
