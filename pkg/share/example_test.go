package share_test

import (
	"fmt"

	"github.com/matzehuels/widgetshare/pkg/share"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

func ExampleLinkFor() {
	for _, p := range widget.Platforms {
		link, _ := share.LinkFor(p, "https://example.com/q3", "Q3 Sales", "Have a look:")
		fmt.Println(link)
	}
	// Output:
	// https://api.whatsapp.com/send?text=Q3%20Sales%20https%3A%2F%2Fexample.com%2Fq3
	// mailto:?subject=Q3%20Sales&body=Have%20a%20look%3A%20https%3A%2F%2Fexample.com%2Fq3
	// https://t.me/share/url?url=https%3A%2F%2Fexample.com%2Fq3&text=Q3%20Sales
}

func ExampleWhatsAppURL() {
	text := share.ShareText("Monthly Sales")
	fmt.Println(share.WhatsAppURL(text, false))
	fmt.Println(share.WhatsAppURL(text, true))
	// Output:
	// https://web.whatsapp.com/send?text=Check%20out%20this%20Monthly%20Sales!
	// whatsapp://send?text=Check%20out%20this%20Monthly%20Sales!
}
