package domain

// ContentType classifies a piece of distributable content.
// The constant value is the canonical lowercase identifier token.
type ContentType string

const (
	ContentGameInstallation  ContentType = "gameinstallation"
	ContentGameClient        ContentType = "gameclient"
	ContentMod               ContentType = "mod"
	ContentPatch             ContentType = "patch"
	ContentAddon             ContentType = "addon"
	ContentMapPack           ContentType = "mappack"
	ContentLanguagePack      ContentType = "languagepack"
	ContentBundle            ContentType = "contentbundle"
	ContentPublisherReferral ContentType = "publisherreferral"
	ContentReferralType      ContentType = "contentreferral"
	ContentMission           ContentType = "mission"
	ContentMap               ContentType = "map"
	ContentUnknown           ContentType = "unknown"
)

// AllContentTypes lists every content type. Tests iterate this slice to
// guarantee the token table stays exhaustive when a value is added.
var AllContentTypes = []ContentType{
	ContentGameInstallation,
	ContentGameClient,
	ContentMod,
	ContentPatch,
	ContentAddon,
	ContentMapPack,
	ContentLanguagePack,
	ContentBundle,
	ContentPublisherReferral,
	ContentReferralType,
	ContentMission,
	ContentMap,
	ContentUnknown,
}

var contentTypeSet = func() map[ContentType]struct{} {
	m := make(map[ContentType]struct{}, len(AllContentTypes))
	for _, ct := range AllContentTypes {
		m[ct] = struct{}{}
	}
	return m
}()

// IsValid reports whether the content type is a known member of the table
func (ct ContentType) IsValid() bool {
	_, ok := contentTypeSet[ct]
	return ok
}

// Token returns the canonical lowercase identifier token for the content type
func (ct ContentType) Token() string {
	return string(ct)
}

// ParseContentType maps a token back to its ContentType, reporting whether
// the token is known. Unknown tokens never silently become ContentUnknown.
func ParseContentType(token string) (ContentType, bool) {
	ct := ContentType(token)
	return ct, ct.IsValid()
}

// InstallationType classifies how a game installation was provisioned
type InstallationType string

const (
	InstallationSteam          InstallationType = "steam"
	InstallationEaApp          InstallationType = "eaapp"
	InstallationOrigin         InstallationType = "origin"
	InstallationTheFirstDecade InstallationType = "thefirstdecade"
	InstallationCDISO          InstallationType = "cdiso"
	InstallationWine           InstallationType = "wine"
	InstallationRetail         InstallationType = "retail"
	InstallationUnknown        InstallationType = "unknown"
)

// AllInstallationTypes lists every installation type for exhaustiveness checks
var AllInstallationTypes = []InstallationType{
	InstallationSteam,
	InstallationEaApp,
	InstallationOrigin,
	InstallationTheFirstDecade,
	InstallationCDISO,
	InstallationWine,
	InstallationRetail,
	InstallationUnknown,
}

var installationTypeSet = func() map[InstallationType]struct{} {
	m := make(map[InstallationType]struct{}, len(AllInstallationTypes))
	for _, it := range AllInstallationTypes {
		m[it] = struct{}{}
	}
	return m
}()

// IsValid reports whether the installation type is known
func (it InstallationType) IsValid() bool {
	_, ok := installationTypeSet[it]
	return ok
}

// Token returns the canonical lowercase identifier token
func (it InstallationType) Token() string {
	return string(it)
}

// GameType identifies which game a manifest targets
type GameType string

const (
	GameGenerals GameType = "generals"
	GameZeroHour GameType = "zerohour"
	GameUnknown  GameType = "unknown"
)

// AllGameTypes lists every game type for exhaustiveness checks
var AllGameTypes = []GameType{GameGenerals, GameZeroHour, GameUnknown}

var gameTypeSet = func() map[GameType]struct{} {
	m := make(map[GameType]struct{}, len(AllGameTypes))
	for _, gt := range AllGameTypes {
		m[gt] = struct{}{}
	}
	return m
}()

// IsValid reports whether the game type is known
func (gt GameType) IsValid() bool {
	_, ok := gameTypeSet[gt]
	return ok
}

// Token returns the canonical lowercase identifier token
func (gt GameType) Token() string {
	return string(gt)
}

// PublisherType classifies the provenance of a publisher
type PublisherType string

const (
	PublisherOfficial  PublisherType = "official"
	PublisherCommunity PublisherType = "community"
	PublisherLocal     PublisherType = "local"
	PublisherUnknown   PublisherType = "unknown"
)

// DependencyType describes what kind of content a dependency points at
type DependencyType string

const (
	DependencyGameInstallation DependencyType = "gameinstallation"
	DependencyGameClient       DependencyType = "gameclient"
	DependencyMod              DependencyType = "mod"
	DependencyPatch            DependencyType = "patch"
	DependencyAddon            DependencyType = "addon"
	DependencyUnknown          DependencyType = "unknown"
)

// InstallBehavior describes whether and how a dependency must be acquired
type InstallBehavior string

const (
	// InstallRequireExisting means the dependency must already be present;
	// its absence fails dependency validation.
	InstallRequireExisting InstallBehavior = "require-existing"
	// InstallAuto means the dependency may be installed automatically;
	// it never blocks validation.
	InstallAuto InstallBehavior = "auto-install"
	// InstallSuggest marks a purely advisory dependency
	InstallSuggest InstallBehavior = "suggest"
)

// ConflictType classifies a declared incompatibility. It is display and
// logging metadata only: resolution dispatches exclusively on the strategy.
type ConflictType string

const (
	ConflictHard      ConflictType = "hard"
	ConflictVersion   ConflictType = "version"
	ConflictFile      ConflictType = "file"
	ConflictPublisher ConflictType = "publisher"
	ConflictFeature   ConflictType = "feature"
)

// ResolutionStrategy selects how a triggered conflict rule is handled
type ResolutionStrategy string

const (
	ResolutionBlock          ResolutionStrategy = "block"
	ResolutionWarn           ResolutionStrategy = "warn"
	ResolutionPreferNewer    ResolutionStrategy = "prefer-newer"
	ResolutionPreferExisting ResolutionStrategy = "prefer-existing"
	ResolutionUserChoice     ResolutionStrategy = "user-choice"
	ResolutionMerge          ResolutionStrategy = "merge"
)

// AllResolutionStrategies lists every strategy for exhaustiveness checks
var AllResolutionStrategies = []ResolutionStrategy{
	ResolutionBlock,
	ResolutionWarn,
	ResolutionPreferNewer,
	ResolutionPreferExisting,
	ResolutionUserChoice,
	ResolutionMerge,
}
