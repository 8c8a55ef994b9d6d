package types_test

import (
	"testing"
	"unsafe"

	"github.com/ghettovoice/sipwire/internal/types"
)

func TestLookupRequestMethod(t *testing.T) {
	t.Parallel()

	methods := []types.RequestMethod{
		types.RequestMethodInvite,
		types.RequestMethodAck,
		types.RequestMethodBye,
		types.RequestMethodCancel,
		types.RequestMethodOptions,
		types.RequestMethodRegister,
		types.RequestMethodSubscribe,
		types.RequestMethodNotify,
		types.RequestMethodPublish,
		types.RequestMethodMessage,
		types.RequestMethodRefer,
		types.RequestMethodUpdate,
		types.RequestMethodInfo,
		types.RequestMethodPrack,
		types.RequestMethodKeepAlive,
	}
	for _, want := range methods {
		first, ok := types.LookupRequestMethod([]byte(want))
		if !ok || first != want {
			t.Errorf("LookupRequestMethod(%q) = (%q, %v), want (%q, true)", want, first, ok, want)
			continue
		}
		second, _ := types.LookupRequestMethod([]byte(string(want)))
		if unsafe.StringData(string(first)) != unsafe.StringData(string(second)) {
			t.Errorf("LookupRequestMethod(%q) returned distinct values for equal input", want)
		}
	}

	for _, in := range []string{"", "IN", "invite", "INVITEX", "INFORM", "PUBLIC", "REFRESH", "FOO"} {
		if m, ok := types.LookupRequestMethod([]byte(in)); ok {
			t.Errorf("LookupRequestMethod(%q) = (%q, true), want (\"\", false)", in, m)
		}
	}
}

func TestRequestMethod_Equal(t *testing.T) {
	t.Parallel()

	m := types.RequestMethodInvite
	if !m.Equal(types.RequestMethod("INVITE")) {
		t.Errorf("Equal(INVITE) = false, want true")
	}
	if m.Equal(types.RequestMethod("invite")) {
		t.Errorf("Equal(invite) = true, want false")
	}
	if m.Equal((*types.RequestMethod)(nil)) {
		t.Errorf("Equal(nil ptr) = true, want false")
	}
	if !types.RequestMethod("X-CUSTOM").IsValid() || types.RequestMethod("BAD METHOD").IsValid() {
		t.Errorf("IsValid() mismatch")
	}
}
