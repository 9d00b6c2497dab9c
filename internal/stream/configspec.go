package stream

// ConfigspecText holds the options of the `[compression]` configspec
// section. No configspec in this module includes it.
const ConfigspecText = `
method = option('none', 'gzip', 'pigz', 'bzip2', 'pbzip2', 'lzma', 'xz', 'lzop', default='gzip')
level = integer(min=0, max=9, default=1)
options = cmdline(default=list())
additional-args = cmdline(default=list(), aliasof='options')
inline = boolean(default=True)
`
