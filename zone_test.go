package rfcmark

import "testing"

func TestZoneTrackerTransitions(t *testing.T) {
	tr := NewZoneTracker()
	if tr.Current() != ZoneFront {
		t.Fatalf("new tracker in %s, want front", tr.Current())
	}

	if ok, f := tr.Open(); !ok || f.Kind != FragmentOpen || f.To != ZoneFront {
		t.Errorf("Open() = %v, %+v", ok, f)
	}
	if ok, _ := tr.Open(); ok {
		t.Error("second Open() returned a marker")
	}

	ok, f := tr.RequestTransition(ZoneBody)
	if !ok || f.From != ZoneFront || f.To != ZoneBody {
		t.Errorf("RequestTransition(body) = %v, %+v", ok, f)
	}
	if ok, _ := tr.RequestTransition(ZoneBody); ok {
		t.Error("repeated transition into body returned a marker")
	}
	if ok, _ := tr.RequestTransition(ZoneFront); ok {
		t.Error("transition back into front returned a marker")
	}

	ok, f = tr.RequestTransition(ZoneBack)
	if !ok || f.From != ZoneBody || f.To != ZoneBack {
		t.Errorf("RequestTransition(back) = %v, %+v", ok, f)
	}
	if tr.Current() != ZoneBack {
		t.Errorf("Current() = %s, want back", tr.Current())
	}

	ok, f = tr.Close()
	if !ok || f.Kind != FragmentClose || f.From != ZoneBack {
		t.Errorf("Close() = %v, %+v", ok, f)
	}
	if ok, _ := tr.Close(); ok {
		t.Error("second Close() returned a marker")
	}
	if ok, _ := tr.RequestTransition(ZoneBack); ok {
		t.Error("transition after Close() returned a marker")
	}
}

func TestZoneTrackerSkipsBody(t *testing.T) {
	tr := NewZoneTracker()
	ok, f := tr.RequestTransition(ZoneBack)
	if !ok || f.From != ZoneFront || f.To != ZoneBack {
		t.Errorf("RequestTransition(back) = %v, %+v", ok, f)
	}
}

func TestZoneTrackerProvisional(t *testing.T) {
	tr := NewZoneTracker()

	ok, f := tr.Provisional(ZoneBody)
	if !ok || f.Kind != FragmentProvisional || f.From != ZoneFront || f.To != ZoneBody {
		t.Fatalf("Provisional(body) = %v, %+v", ok, f)
	}
	if tr.Current() != ZoneFront {
		t.Errorf("Provisional moved current zone to %s", tr.Current())
	}
	if ok, _ := tr.Provisional(ZoneBody); ok {
		t.Error("second Provisional(body) returned a marker")
	}

	// leaving for back matter starts from the pending zone
	ok, f = tr.RequestTransition(ZoneBack)
	if !ok || f.From != ZoneBody || f.To != ZoneBack {
		t.Errorf("RequestTransition(back) = %v, %+v", ok, f)
	}
}

func TestZoneTrackerCloseProvisional(t *testing.T) {
	tr := NewZoneTracker()
	tr.Provisional(ZoneBody)
	if _, f := tr.Close(); f.From != ZoneBody {
		t.Errorf("Close() closes %s, want body", f.From)
	}

	tr = NewZoneTracker()
	if _, f := tr.Close(); f.From != ZoneFront {
		t.Errorf("Close() of empty document closes %s, want front", f.From)
	}
}

func TestZoneString(t *testing.T) {
	tests := []struct {
		zone    Zone
		name    string
		element string
	}{
		{ZoneFront, "front", "front"},
		{ZoneBody, "body", "middle"},
		{ZoneBack, "back", "back"},
	}
	for _, tt := range tests {
		if tt.zone.String() != tt.name {
			t.Errorf("String() = %q, want %q", tt.zone.String(), tt.name)
		}
		if tt.zone.element() != tt.element {
			t.Errorf("element() = %q, want %q", tt.zone.element(), tt.element)
		}
	}
	if s := Zone(7).String(); s != "Zone(7)" {
		t.Errorf("String() = %q for invalid zone", s)
	}
}

func TestZoneTrackerWithdraw(t *testing.T) {
	tr := NewZoneTracker()
	if tr.Withdraw() {
		t.Error("Withdraw() = true without a provisional target")
	}
	if ok, _ := tr.Provisional(ZoneBody); !ok {
		t.Fatal("Provisional(body) returned no marker")
	}
	if !tr.Withdraw() {
		t.Fatal("Withdraw() = false with a provisional target")
	}
	if ok, f := tr.Close(); !ok || f.From != ZoneFront {
		t.Errorf("Close() = %v, %+v, want close of front", ok, f)
	}
}
