package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

var (
	username = flag.String("username", "demo", "用户名")
	password = flag.String("password", "password", "密码")
	role     = flag.String("role", "user", "角色")
	cost     = flag.Int("cost", bcrypt.DefaultCost, "bcrypt 计算成本")
)

func main() {
	flag.Parse()

	// 1. 使用 bcrypt 加密密码
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(*password), *cost)
	if err != nil {
		fmt.Printf("❌ 加密密码失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 自校验哈希与原始密码匹配
	if err := bcrypt.CompareHashAndPassword(passwordHash, []byte(*password)); err != nil {
		fmt.Printf("❌ 哈希自校验失败: %v\n", err)
		os.Exit(1)
	}

	// 3. 输出可直接粘贴进配置的片段
	fmt.Println("=========================================")
	fmt.Printf("✅ 密码哈希生成成功！\n")
	fmt.Println("=========================================")
	fmt.Printf("用户名:  %s\n", *username)
	fmt.Printf("密码:    %s\n", *password)
	fmt.Printf("角色:    %s\n", *role)
	fmt.Println("=========================================")
	fmt.Println("\n📝 将下面的片段加入 config/config.yaml 的 users 列表：")
	fmt.Printf("\n  - username: \"%s\"\n", *username)
	fmt.Printf("    password_hash: \"%s\"\n", string(passwordHash))
	fmt.Printf("    role: \"%s\"\n\n", *role)
}
