package flags

const Verbose = `v`
const Quiet = `q`
const Plain = `p`
const Help = `h`
const ProjectDir = `C`
const Exclude = `exclude`
const OmitDefaults = `omit-defaults`
const ProfileName = `profile-name`
const WebRoot = `web-root`
const CopyWithConfirmation = `confirm`
const StatusWithDiff = `diff`
