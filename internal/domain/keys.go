package domain

// Persistence keys. Every value is a base-10 decimal string.
const (
	KeyWater           = "PEA_WATER"
	KeySun             = "PEA_SUN"
	KeySoil            = "PEA_SOIL"
	KeyFun             = "PEA_FUN"
	KeyEnergy          = "PEA_ENERGY"
	KeyLastVisit       = "PEA_LAST_VISIT"
	KeyCoins           = "PEA_COINS"
	KeyFlappyHighScore = "PEA_FLAPPY_HIGHSCORE"
)

// ResumeKeys lists every key read once at startup.
var ResumeKeys = []string{
	KeyWater, KeySun, KeySoil, KeyFun, KeyEnergy,
	KeyLastVisit, KeyCoins, KeyFlappyHighScore,
}
