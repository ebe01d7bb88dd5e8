package errors

import (
	"os"
)

// OsExit is a variable for testing, so we can mock os.Exit.
var OsExit = os.Exit
