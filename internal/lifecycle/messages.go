package lifecycle

// User-facing status lines.
const (
	msgNotTired       = "Pea isn't tired right now 🌱"
	msgNapping        = "Pea is taking a nap... 💤"
	msgNotRested      = "Pea is not rested yet. Let Pea sleep a bit longer 😴"
	msgWokeEarly      = "Pea woke early and is a little grumpy 😕"
	msgFeelBetter     = "Pea feels better after that nap 🌞"
	msgNeglected      = "Pea was left alone for a long time and feels neglected 😢"
	msgLongAwayIdle   = "Pea fell asleep while you were away. Wake Pea up!"
	msgChoosingGame   = "Pick a game to play with Pea 🎲"
	msgWakeFirst      = "Wake Pea up before playing!"
	msgTiredRest      = "Pea is too tired to play. Let Pea rest first 😴"
	msgSleepingNoPlay = "Pea is sleeping. Try again later 💤"

	msgTapNoScore    = "No taps this time. Pea is waiting for you! 👆"
	msgTapDone       = "Tap game finished! Score %d, +%d coins 🪙"
	msgTapExhausted  = "Pea played until exhausted and fell asleep! Score %d, +%d coins 😴"
	msgReflexNoScore = "No hits this time. Try again! ⚡"
	msgReflexDone    = "Reflex game finished! Score %d, +%d coins ⚡"
	msgFlappyNoScore = "Pea didn't make it past the first pipe. Try again! 🐦"
	msgFlappyDone    = "Flappy game finished! Score %d, +%d coins 🐦"
	msgFlappyRecord  = "New record! %d beats the old best of %d. +%d coins 🏆"
)
