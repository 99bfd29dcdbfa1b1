package rfcmark

import (
	"reflect"
	"testing"
)

func content(s string) Fragment { return Fragment{Kind: FragmentContent, Text: []byte(s)} }

func transition(from, to Zone) Fragment {
	return Fragment{Kind: FragmentTransition, From: from, To: to}
}

func provisional(from, to Zone) Fragment {
	return Fragment{Kind: FragmentProvisional, From: from, To: to}
}

func TestAssemblerDropsEmptyContent(t *testing.T) {
	var a Assembler
	a.Append(content(""))
	a.Append(Fragment{Kind: FragmentOpen, To: ZoneFront})
	a.Append(content("x"))
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
	doc := a.Finalize()
	if doc.Version != 3 || len(doc.Fragments) != 2 {
		t.Errorf("Finalize() = %+v", doc)
	}
}

func TestReconcile(t *testing.T) {
	open := Fragment{Kind: FragmentOpen, To: ZoneFront}
	tests := []struct {
		name string
		in   []Fragment
		want []Fragment
	}{
		{
			name: "confirmed later",
			in:   []Fragment{open, provisional(ZoneFront, ZoneBody), content("a"), transition(ZoneFront, ZoneBody), content("b")},
			want: []Fragment{open, content("a"), transition(ZoneFront, ZoneBody), content("b")},
		},
		{
			name: "never confirmed",
			in:   []Fragment{open, provisional(ZoneFront, ZoneBody), content("a")},
			want: []Fragment{open, transition(ZoneFront, ZoneBody), content("a")},
		},
		{
			name: "confirmed for another zone only",
			in:   []Fragment{open, provisional(ZoneFront, ZoneBody), content("a"), transition(ZoneBody, ZoneBack), content("b")},
			want: []Fragment{open, transition(ZoneFront, ZoneBody), content("a"), transition(ZoneBody, ZoneBack), content("b")},
		},
		{
			name: "no provisional",
			in:   []Fragment{open, content("a"), transition(ZoneFront, ZoneBody), content("b")},
			want: []Fragment{open, content("a"), transition(ZoneFront, ZoneBody), content("b")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("\nInput   [%v]\nExpected[%v]\nActual  [%v]", tt.in, tt.want, got)
			}
			if again := Reconcile(got); !reflect.DeepEqual(again, got) {
				t.Errorf("Reconcile is not idempotent:\nonce [%v]\ntwice[%v]", got, again)
			}
			for _, f := range got {
				if f.Kind == FragmentProvisional {
					t.Errorf("provisional marker survived: %+v", f)
				}
			}
		})
	}
}

func TestFragmentKind(t *testing.T) {
	for k, want := range map[FragmentKind]bool{
		FragmentContent:     false,
		FragmentOpen:        true,
		FragmentTransition:  true,
		FragmentProvisional: true,
		FragmentClose:       true,
		FragmentReferences:  false,
	} {
		if k.IsMarker() != want {
			t.Errorf("%s.IsMarker() = %v, want %v", k, k.IsMarker(), want)
		}
	}
}

func TestAssemblerWithdraw(t *testing.T) {
	var a Assembler
	if a.Withdraw() {
		t.Error("Withdraw() = true on an empty stream")
	}
	a.Append(Fragment{Kind: FragmentOpen, To: ZoneFront})
	a.Append(provisional(ZoneFront, ZoneBody))
	a.Append(content("pre"))
	if !a.Withdraw() {
		t.Fatal("Withdraw() = false with a provisional marker")
	}
	want := []Fragment{{Kind: FragmentOpen, To: ZoneFront}, content("pre")}
	if got := a.Finalize().Fragments; !reflect.DeepEqual(got, want) {
		t.Errorf("\nExpected[%+v]\nActual  [%+v]", want, got)
	}
}
