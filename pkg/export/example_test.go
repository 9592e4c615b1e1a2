package export_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/widgetshare/pkg/export"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

func ExampleGenerateFileName() {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	fmt.Println(export.GenerateFileName("Monthly Sales Performance", widget.FormatPNG, ts))
	// Output:
	// monthly_sales_performance_2024-03-05_14-07-09.png
}
