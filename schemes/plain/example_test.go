package plain_test

import (
	"fmt"

	"github.com/aeris-crypto/frank/schemes/plain"
)

func Example() {
	var kR [plain.ChannelKeySize]byte
	copy(kR[:], "shared channel key, 32 bytes!!!")

	km, err := plain.SetupMod()
	if err != nil {
		panic(err)
	}

	message := []byte("hello")
	ctx := []byte("send-id-1")

	c1, c2, err := plain.Send(kR, message)
	if err != nil {
		panic(err)
	}

	sigma := plain.ModProcess(km, c2, ctx)

	m, report, err := plain.Read(kR, c1, c2, ctx, sigma)
	if err != nil {
		panic(err)
	}
	report = plain.ReportGen(m, report)

	gotCtx, err := plain.Moderate(km, m, report)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(gotCtx))
	// Output: send-id-1
}
