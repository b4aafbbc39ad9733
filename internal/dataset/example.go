package dataset

const exampleCSV = "取樣日期,組號,施工部位,X1,X2,X3,X4,X5,X6\n" +
	"2024/06/01,1,主橋#1,680,700,695,,,\n" +
	"2024/06/02,2,主橋#2,720,735,710,715,,\n" +
	"2024/06/03,3,主橋#3,640,630,650,,,\n"

// ExampleCSV returns the bundled sample file, UTF-8 with a byte-order mark so
// spreadsheet programs pick the right encoding.
func ExampleCSV() []byte {
	return append([]byte("\ufeff"), exampleCSV...)
}

const ExampleFilename = "example.csv"
