package sim

import "testing"

func TestCameraTypeString(t *testing.T) {
	tests := []struct {
		ct   CameraType
		want string
	}{
		{CameraFree, "free"},
		{CameraInterior, "interior"},
		{CameraChase, "chase"},
		{CameraOnRails, "onrails"},
		{CameraType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("CameraType(%d).String() = %q, want %q", tt.ct, got, tt.want)
		}
	}
}

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 10, Y: 20, Z: 30}

	sum := a.Add(b)
	if sum != (Vec3{X: 11, Y: 22, Z: 33}) {
		t.Errorf("Add() = %+v", sum)
	}

	diff := b.Sub(a)
	if diff != (Vec3{X: 9, Y: 18, Z: 27}) {
		t.Errorf("Sub() = %+v", diff)
	}
}

func TestGameplayEventAttr(t *testing.T) {
	ev := GameplayEvent{Fields: map[string]string{"offence": "red_signal"}}
	if got := ev.Attr("offence"); got != "red_signal" {
		t.Errorf("Attr(offence) = %q", got)
	}
	if got := ev.Attr("missing"); got != "" {
		t.Errorf("Attr(missing) = %q, want empty", got)
	}
}
