package content

import (
	"github.com/partypop/partypop/internal/model"
)

// Built-in content pools. These back the static provider so a server without
// a database still serves every mode in every pool. The lists are short on
// purpose; larger catalogs live in Postgres.

func builtinQuiz() map[model.PoolKey][]model.QuizQuestion {
	return map[model.PoolKey][]model.QuizQuestion{
		model.PoolWissen: {
			{Text: "Wie viele Planeten hat unser Sonnensystem?", Answers: []string{"7", "8", "9", "10"}, CorrectIndex: 1, Pool: model.PoolWissen},
			{Text: "Welches Element hat das Symbol O?", Answers: []string{"Gold", "Osmium", "Sauerstoff", "Silber"}, CorrectIndex: 2, Pool: model.PoolWissen},
			{Text: "Wie viele Kontinente gibt es?", Answers: []string{"5", "6", "7", "8"}, CorrectIndex: 2, Pool: model.PoolWissen},
			{Text: "Was ist die Hauptstadt von Australien?", Answers: []string{"Sydney", "Melbourne", "Canberra", "Perth"}, CorrectIndex: 2, Pool: model.PoolWissen},
		},
		model.PoolFussball: {
			{Text: "Wie lange dauert eine reguläre Halbzeit?", Answers: []string{"30 Minuten", "45 Minuten", "60 Minuten", "40 Minuten"}, CorrectIndex: 1, Pool: model.PoolFussball},
			{Text: "Wer wurde 2014 Weltmeister?", Answers: []string{"Brasilien", "Argentinien", "Deutschland", "Spanien"}, CorrectIndex: 2, Pool: model.PoolFussball},
			{Text: "Wie viele Spieler stehen pro Team auf dem Platz?", Answers: []string{"10", "11", "12", "9"}, CorrectIndex: 1, Pool: model.PoolFussball},
		},
		model.PoolRomantisch: {
			{Text: "Welche Blume gilt klassisch als Symbol der Liebe?", Answers: []string{"Tulpe", "Rose", "Nelke", "Lilie"}, CorrectIndex: 1, Pool: model.PoolRomantisch},
			{Text: "An welchem Tag ist Valentinstag?", Answers: []string{"14. Februar", "1. April", "14. März", "24. Dezember"}, CorrectIndex: 0, Pool: model.PoolRomantisch},
		},
		model.PoolGaming: {
			{Text: "Wie heißt der Klempner von Nintendo?", Answers: []string{"Luigi", "Mario", "Wario", "Toad"}, CorrectIndex: 1, Pool: model.PoolGaming},
			{Text: "In welchem Spiel sammelt man Ringe?", Answers: []string{"Sonic", "Zelda", "Tetris", "Pac-Man"}, CorrectIndex: 0, Pool: model.PoolGaming},
			{Text: "Was baut man in Minecraft zuerst ab?", Answers: []string{"Stein", "Eisen", "Holz", "Diamant"}, CorrectIndex: 2, Pool: model.PoolGaming},
		},
		model.PoolFilm: {
			{Text: "Wer führte bei 'Jurassic Park' Regie?", Answers: []string{"James Cameron", "Steven Spielberg", "George Lucas", "Ridley Scott"}, CorrectIndex: 1, Pool: model.PoolFilm},
			{Text: "Wie heißt der Hobbit aus 'Der Herr der Ringe'?", Answers: []string{"Frodo", "Gimli", "Legolas", "Boromir"}, CorrectIndex: 0, Pool: model.PoolFilm},
		},
	}
}

func builtinDrawing() map[model.PoolKey][]model.DrawingWord {
	return map[model.PoolKey][]model.DrawingWord{
		model.PoolWissen: {
			{Word: "Vulkan", Pool: model.PoolWissen},
			{Word: "Mikroskop", Pool: model.PoolWissen},
			{Word: "Regenbogen", Pool: model.PoolWissen},
		},
		model.PoolFussball: {
			{Word: "Elfmeter", Pool: model.PoolFussball},
			{Word: "Schiedsrichter", Pool: model.PoolFussball},
			{Word: "Eckfahne", Pool: model.PoolFussball},
		},
		model.PoolRomantisch: {
			{Word: "Kerzenlicht", Pool: model.PoolRomantisch},
			{Word: "Liebesbrief", Pool: model.PoolRomantisch},
		},
		model.PoolGaming: {
			{Word: "Joystick", Pool: model.PoolGaming},
			{Word: "Pixel", Pool: model.PoolGaming},
			{Word: "Highscore", Pool: model.PoolGaming},
		},
		model.PoolFilm: {
			{Word: "Popcorn", Pool: model.PoolFilm},
			{Word: "Klappe", Pool: model.PoolFilm},
		},
	}
}

func builtinVoting() map[model.PoolKey][]model.VotingPrompt {
	return map[model.PoolKey][]model.VotingPrompt{
		model.PoolWissen: {
			{Prompt: "Wer würde am ehesten eine Quizshow gewinnen?", Pool: model.PoolWissen},
			{Prompt: "Wer verläuft sich am ehesten mit Karte und Kompass?", Pool: model.PoolWissen},
		},
		model.PoolFussball: {
			{Prompt: "Wer würde einen Elfmeter verschießen?", Pool: model.PoolFussball},
			{Prompt: "Wer schreit beim Fußballschauen am lautesten?", Pool: model.PoolFussball},
		},
		model.PoolRomantisch: {
			{Prompt: "Wer vergisst am ehesten den Jahrestag?", Pool: model.PoolRomantisch},
			{Prompt: "Wer schreibt die kitschigsten Nachrichten?", Pool: model.PoolRomantisch},
		},
		model.PoolGaming: {
			{Prompt: "Wer rage-quittet am schnellsten?", Pool: model.PoolGaming},
			{Prompt: "Wer zockt heimlich bis 4 Uhr morgens?", Pool: model.PoolGaming},
		},
		model.PoolFilm: {
			{Prompt: "Wer weint im Kino am ehesten?", Pool: model.PoolFilm},
			{Prompt: "Wer spoilert am ehesten das Ende?", Pool: model.PoolFilm},
		},
	}
}

func builtinEmoji() map[model.PoolKey][]model.EmojiRiddle {
	return map[model.PoolKey][]model.EmojiRiddle{
		model.PoolWissen: {
			{Emoji: "🌋🔥", Answer: "Vulkan", Pool: model.PoolWissen},
			{Emoji: "🧲⚡", Answer: "Magnet", Pool: model.PoolWissen},
		},
		model.PoolFussball: {
			{Emoji: "⚽🥅👐", Answer: "Torwart", Pool: model.PoolFussball},
			{Emoji: "🟨🟥", Answer: "Platzverweis", Pool: model.PoolFussball},
		},
		model.PoolRomantisch: {
			{Emoji: "💍🧎", Answer: "Heiratsantrag", Pool: model.PoolRomantisch},
		},
		model.PoolGaming: {
			{Emoji: "🍄👨🔧", Answer: "Super Mario", Pool: model.PoolGaming},
			{Emoji: "🧱⛏️", Answer: "Minecraft", Pool: model.PoolGaming},
			{Emoji: "👻🟡", Answer: "Pac-Man", Pool: model.PoolGaming},
		},
		model.PoolFilm: {
			{Emoji: "🦁👑", Answer: "König der Löwen", Pool: model.PoolFilm},
			{Emoji: "🚢🧊💔", Answer: "Titanic", Pool: model.PoolFilm},
			{Emoji: "🦖🏝️", Answer: "Jurassic Park", Pool: model.PoolFilm},
		},
	}
}

func builtinCategory() map[model.PoolKey][]model.CategoryPrompt {
	return map[model.PoolKey][]model.CategoryPrompt{
		model.PoolWissen: {
			{Prompt: "Chemische Elemente", Pool: model.PoolWissen},
			{Prompt: "Hauptstädte Europas", Pool: model.PoolWissen},
			{Prompt: "Säugetiere", Pool: model.PoolWissen},
		},
		model.PoolFussball: {
			{Prompt: "Bundesliga-Vereine", Pool: model.PoolFussball},
			{Prompt: "Weltmeister-Länder", Pool: model.PoolFussball},
		},
		model.PoolRomantisch: {
			{Prompt: "Kosenamen", Pool: model.PoolRomantisch},
			{Prompt: "Orte für ein erstes Date", Pool: model.PoolRomantisch},
		},
		model.PoolGaming: {
			{Prompt: "Videospiel-Helden", Pool: model.PoolGaming},
			{Prompt: "Spielkonsolen", Pool: model.PoolGaming},
		},
		model.PoolFilm: {
			{Prompt: "Oscar-prämierte Filme", Pool: model.PoolFilm},
			{Prompt: "Schauspieler aus Actionfilmen", Pool: model.PoolFilm},
		},
	}
}
