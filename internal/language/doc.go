// Package language validates BCP 47 language codes and maps them to English
// display names for provider prompts.
//
// Both the recognizer and the translator name the film's languages in their
// prompts, so the conversions live here rather than in either package.
package language
