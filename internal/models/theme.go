package models

// ThemeSetting holds the decoration settings applied to managed windows.
type ThemeSetting struct {
	BorderWidth         int
	Margin              int
	DefaultBorderColor  string
	FloatingBorderColor string
	FocusedBorderColor  string
	// OnNewWindowCmd is run through sh -c whenever a window is created.
	// Empty disables the hook.
	OnNewWindowCmd string
}
