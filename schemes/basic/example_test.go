package basic_test

import (
	"fmt"

	"github.com/aeris-crypto/frank/schemes/basic"
)

func Example() {
	var kR [basic.ChannelKeySize]byte
	copy(kR[:], "shared channel key, 32 bytes!!!")

	platform := basic.SetupPlatform()
	modID, macKey, privKey, err := basic.SetupMod(platform)
	if err != nil {
		panic(err)
	}

	message := []byte("hello")
	ctx := []byte("send-id-2")

	c1, c2, ad, err := basic.Send(kR, message, modID)
	if err != nil {
		panic(err)
	}

	sigmaCT, st, err := basic.Process(platform, c1, c2, ad, ctx)
	if err != nil {
		panic(err)
	}

	m, report, err := basic.Read(kR, c1, c2, sigmaCT, st)
	if err != nil {
		panic(err)
	}
	report = basic.ReportGen(m, report)

	gotCtx, err := basic.Moderate(privKey, macKey, m, report)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(gotCtx))
	// Output: send-id-2
}
