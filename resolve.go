package texsurf

type resolveKey struct {
	format    Format
	alphaUsed bool
}

// siblingFormats maps a requested format and alpha usage to the variant that
// is actually persisted.
var siblingFormats = map[resolveKey]Format{
	{FormatBC1, true}:       FormatBC1a,
	{FormatBC1a, false}:     FormatBC1,
	{FormatBC7, true}:       FormatBC7t,
	{FormatBC7t, false}:     FormatBC7,
	{FormatETC2, true}:      FormatETC2a,
	{FormatETC2a, false}:    FormatETC2,
	{FormatX8R8G8B8, true}:  FormatA8R8G8B8,
	{FormatA8R8G8B8, false}: FormatX8R8G8B8,
	{FormatR8G8B8, true}:    FormatA8R8G8B8,
}

// ResolveFinalFormat returns the format to persist for requested when the
// image does or does not use its alpha channel. Pairs without a rule return
// requested unchanged.
func ResolveFinalFormat(requested Format, alphaUsed bool) Format {
	if f, ok := siblingFormats[resolveKey{format: requested, alphaUsed: alphaUsed}]; ok {
		return f
	}

	return requested
}
